package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"

	"go.uber.org/zap"
)

// envelope is the response shape shared by every /api/v1 endpoint except
// the health report.
type envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
	Meta    *responseMeta `json:"meta,omitempty"`
}

type responseMeta struct {
	GeneratedAt string `json:"generated_at"`
	LLMEnhanced *bool  `json:"llm_enhanced,omitempty"`
}

func newMeta() *responseMeta {
	return &responseMeta{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func writeData(w http.ResponseWriter, data any, meta *responseMeta) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Meta: meta})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var noTransactions *domain.ErrNoTransactions
	var validation *domain.ErrValidation
	var unavailable *domain.ErrUnavailable
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &noTransactions):
		logger.Debug("no transactions", zap.String("pocket_id", noTransactions.PocketID))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &unavailable):
		logger.Debug("feature unavailable", zap.String("feature", unavailable.Feature))
		writeError(w, http.StatusServiceUnavailable, unavailable.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, circuitOpen.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, timeout.Error())
	case errors.As(err, &external):
		logger.Error("external service failure", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream language model request failed")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
