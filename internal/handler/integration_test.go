package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/handler"
	"github.com/boddenberg/pocket-insights-go/internal/infra/cache"
	"github.com/boddenberg/pocket-insights-go/internal/infra/llm"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/infra/resilience"
	"github.com/boddenberg/pocket-insights-go/internal/infra/store"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.uber.org/zap"
)

// TestIntegration_FullFlow wires the real SQLite store, Redis cache and
// OpenRouter client against local fakes and drives the HTTP API end to end.
func TestIntegration_FullFlow(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	// --- Store ---
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "transactions.db"), logger)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ds := &domain.Dataset{
		Meta: domain.DatasetMeta{
			WalletID: "pocket-1",
			Currency: "IDR",
			Period:   domain.Period{StartDate: "2024-01-01", EndDate: "2024-02-29"},
		},
		Transactions: seededStore().txs,
	}
	if err := st.Seed(ctx, ds); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	// --- Cache ---
	mr := miniredis.RunT(t)
	rc, err := cache.NewRedis[*domain.AnalysisResult](ctx, "redis://"+mr.Addr(), "pocket:analysis:", time.Minute, logger)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { rc.Close() })

	// --- Mock OpenRouter API ---
	var llmCalls atomic.Int32
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llmCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "Analisis mendalam."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120}
		}`))
	}))
	defer llmServer.Close()

	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 3}
	openRouter := llm.NewOpenRouter(&http.Client{Timeout: 5 * time.Second}, llmServer.URL, "test-key", "openai/gpt-4o-mini",
		resilience.NewCircuitBreaker("integration"), cfg, metrics)

	// --- Build services ---
	enhancer := service.NewEnhancer(openRouter, cfg.MaxConcurrency, metrics, logger)
	analysisSvc := service.NewAnalysisService(st, rc, enhancer, metrics, logger)
	chatSvc := service.NewChatService(openRouter, analysisSvc, metrics, logger)
	analysisSvc.WithChat(chatSvc)

	router := handler.NewRouter(analysisSvc, chatSvc, metrics, handler.Options{
		Dependencies: map[string]handler.Pinger{"sqlite": st, "redis": rc},
	}, logger)

	// --- Enhanced analysis ---
	rec, env := do(t, router, http.MethodGet,
		"/api/v1/analysis?pocket_id=pocket-1&start_date=2024-01-01&end_date=2024-02-29&include_llm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	if env.Meta == nil || env.Meta.LLMEnhanced == nil || !*env.Meta.LLMEnhanced {
		t.Fatalf("expected llm_enhanced=true, got %+v", env.Meta)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("failed to decode analysis: %v", err)
	}
	if result.Summary.TotalIncome != 16_000_000 || result.Summary.TotalExpense != 3_500_000 {
		t.Errorf("unexpected summary %+v", result.Summary)
	}
	if len(result.Insights) == 0 {
		t.Fatal("expected insights")
	}
	for _, in := range result.Insights {
		if in.DeepAnalysis != "Analisis mendalam." {
			t.Errorf("insight %q not enhanced: %q", in.Title, in.DeepAnalysis)
		}
	}
	if got := int(llmCalls.Load()); got != len(result.Insights) {
		t.Errorf("expected one model call per insight, got %d for %d insights", got, len(result.Insights))
	}

	// The rule-based result is cached in Redis, never the model text.
	raw, err := mr.Get("pocket:analysis:pocket-1:2024-01-01:2024-02-29")
	if err != nil {
		t.Fatalf("expected cached analysis in redis: %v", err)
	}
	if strings.Contains(raw, "Analisis mendalam.") {
		t.Error("model text leaked into the cache")
	}

	// --- Plain analysis served from cache ---
	rec, env = do(t, router, http.MethodGet,
		"/api/v1/analysis?pocket_id=pocket-1&start_date=2024-01-01&end_date=2024-02-29", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env.Meta == nil || env.Meta.LLMEnhanced == nil || *env.Meta.LLMEnhanced {
		t.Errorf("expected llm_enhanced=false, got %+v", env.Meta)
	}
	if rate := metrics.GetLLMSnapshot().ErrorRate; rate != 0 {
		t.Errorf("expected no LLM errors, got rate %v", rate)
	}

	// --- Chat ---
	rec, env = do(t, router, http.MethodPost, "/api/v1/chat",
		`{"message": "Berapa total pengeluaran saya?", "pocket_id": "pocket-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var chat domain.ChatResponse
	if err := json.Unmarshal(env.Data, &chat); err != nil {
		t.Fatalf("failed to decode chat response: %v", err)
	}
	if chat.Response != "Analisis mendalam." || len(chat.ToolsUsed) != 0 {
		t.Errorf("unexpected chat response %+v", chat)
	}

	// --- Readiness covers both dependencies ---
	rec, _ = do(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected ready, got %d", rec.Code)
	}

	mr.Close()
	rec, _ = do(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with redis down, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "redis") {
		t.Errorf("expected redis named as the failing dependency, got %s", rec.Body.String())
	}
}
