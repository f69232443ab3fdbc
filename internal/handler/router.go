package handler

import (
	"net/http"

	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Options carries what the router needs besides the services.
type Options struct {
	AllowedOrigins []string
	// Dependencies are pinged by /healthz and /readyz, keyed by name.
	Dependencies map[string]Pinger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(analysisSvc *service.AnalysisService, chatSvc *service.ChatService, metrics *observability.Metrics, opts Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(opts.AllowedOrigins))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(opts.Dependencies, logger))
	r.Get("/readyz", readyzHandler(opts.Dependencies))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", apiHealthHandler(analysisSvc))

		r.Route("/analysis", func(r chi.Router) {
			r.Get("/", analysisHandler(analysisSvc, logger))
			r.Get("/categories", categoriesHandler(analysisSvc, logger))
			r.Get("/monthly", monthlyHandler(analysisSvc, logger))
			r.Get("/daily", dailyHandler(analysisSvc, logger))
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", chatHandler(chatSvc, logger))
			r.Get("/status", chatStatusHandler(chatSvc))
		})

		r.Get("/metrics/llm", llmMetricsHandler(metrics))
	})

	return r
}
