package handler

import (
	"net/http"

	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func analysisHandler(svc *service.AnalysisService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/analysis")
		defer span.End()

		q := r.URL.Query()
		params := service.AnalysisParams{
			PocketID:       q.Get("pocket_id"),
			StartDate:      q.Get("start_date"),
			EndDate:        q.Get("end_date"),
			IncludeLLM:     q.Get("include_llm") == "true",
			IncludeSummary: q.Get("include_summary") == "true",
		}
		span.SetAttributes(attribute.String("pocket.id", params.PocketID))

		out, err := svc.Analyze(ctx, params)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		meta := newMeta()
		meta.LLMEnhanced = &out.LLMEnhanced
		writeData(w, out.Result, meta)
	}
}

func categoriesHandler(svc *service.AnalysisService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/analysis/categories")
		defer span.End()

		q := r.URL.Query()
		data, err := svc.Categories(ctx, q.Get("pocket_id"), q.Get("start_date"), q.Get("end_date"), q.Get("type"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, data, newMeta())
	}
}

func monthlyHandler(svc *service.AnalysisService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/analysis/monthly")
		defer span.End()

		q := r.URL.Query()
		months, err := svc.Monthly(ctx, q.Get("pocket_id"), q.Get("start_date"), q.Get("end_date"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]any{"monthly_cashflow": months}, newMeta())
	}
}

func dailyHandler(svc *service.AnalysisService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/v1/analysis/daily")
		defer span.End()

		q := r.URL.Query()
		days, period, err := svc.Daily(ctx, q.Get("pocket_id"), q.Get("start_date"), q.Get("end_date"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]any{"period": period, "daily_cashflow": days}, newMeta())
	}
}
