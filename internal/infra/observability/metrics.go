package observability

import (
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the insights service.
type Metrics struct {
	// Registry owns every collector below; the /metrics endpoint serves it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	llmCalls        *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	enhancements    *prometheus.CounterVec
	insights        *prometheus.CounterVec
	chatTools       *prometheus.CounterVec
}

// NewMetrics creates a private registry so repeated construction in tests
// never hits duplicate-collector panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pocket_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		llmCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_llm_calls_total",
				Help: "Total LLM calls by outcome.",
			},
			[]string{"status"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		enhancements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_insight_enhancements_total",
				Help: "Insight enhancement attempts by outcome.",
			},
			[]string{"outcome"},
		),
		insights: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_insights_generated_total",
				Help: "Rule-based insights generated by type.",
			},
			[]string{"type"},
		),
		chatTools: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pocket_chat_tool_calls_total",
				Help: "Chat assistant tool invocations.",
			},
			[]string{"tool"},
		),
	}
}

// Cache names used as label values.
const (
	CacheAnalysis = "analysis"
)

// Enhancement outcomes.
const (
	OutcomeEnhanced = "enhanced"
	OutcomeFallback = "fallback"
)

func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordLLMCall counts one provider round trip and its token usage.
func (m *Metrics) RecordLLMCall(err error, usage domain.TokenUsage) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.llmCalls.WithLabelValues(status).Inc()
	m.tokensUsed.WithLabelValues("prompt").Add(float64(usage.PromptTokens))
	m.tokensUsed.WithLabelValues("completion").Add(float64(usage.CompletionTokens))
}

func (m *Metrics) IncrEnhancement(outcome string) {
	m.enhancements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrInsight(t domain.InsightType) {
	m.insights.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) IncrChatTool(name string) {
	m.chatTools.WithLabelValues(name).Inc()
}

// GetLLMSnapshot summarises cumulative LLM usage for GET /api/v1/metrics/llm.
func (m *Metrics) GetLLMSnapshot() *domain.LLMMetrics {
	success := getCounterValue(m.llmCalls, "success")
	failed := getCounterValue(m.llmCalls, "error")
	promptTokens := getCounterValue(m.tokensUsed, "prompt")
	completionTokens := getCounterValue(m.tokensUsed, "completion")
	enhanced := getCounterValue(m.enhancements, OutcomeEnhanced)
	fallback := getCounterValue(m.enhancements, OutcomeFallback)
	hits := getCounterValue(m.cacheHits, CacheAnalysis)
	misses := getCounterValue(m.cacheMisses, CacheAnalysis)

	total := success + failed
	snap := &domain.LLMMetrics{
		TotalCalls:       int64(total),
		EnhancedInsights: int64(enhanced),
		FallbackInsights: int64(fallback),
		PromptTokens:     int64(promptTokens),
		CompletionTokens: int64(completionTokens),
		Period:           "all_time",
	}
	if total > 0 {
		snap.ErrorRate = failed / total
		snap.AvgTokensPerCall = (promptTokens + completionTokens) / total
	}
	if enhanced+fallback > 0 {
		snap.FallbackRate = fallback / (enhanced + fallback)
	}
	if hits+misses > 0 {
		snap.AnalysisCacheHitRate = hits / (hits + misses)
	}
	return snap
}

// getCounterValue extracts the current value from a CounterVec for one label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
