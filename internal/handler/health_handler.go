package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.uber.org/zap"
)

// Pinger is a dependency the readiness probes can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func apiHealthHandler(svc *service.AnalysisService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/health")
		defer span.End()

		h := svc.Health(ctx)
		status := http.StatusOK
		if h.Status != "healthy" {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, h)
	}
}

func healthzHandler(deps map[string]Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "pocket-insights-api", Status: "healthy", LastChecked: now},
		}
		overall := "healthy"

		for name, dep := range deps {
			start := time.Now()
			err := dep.Ping(ctx)
			status := "healthy"
			if err != nil {
				status = "degraded"
				overall = "degraded"
				logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name:        name,
				Status:      status,
				LatencyMs:   time.Since(start).Milliseconds(),
				LastChecked: now,
			})
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{Status: overall, Services: services})
	}
}

func readyzHandler(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "dependency": name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func llmMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, metrics.GetLLMSnapshot(), newMeta())
	}
}
