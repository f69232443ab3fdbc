package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.uber.org/zap"
)

const maxChatBodyBytes = 1 << 20

func chatHandler(svc *service.ChatService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/v1/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		resp, err := svc.Chat(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, resp, newMeta())
	}
}

func chatStatusHandler(svc *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, svc.Status(), nil)
	}
}
