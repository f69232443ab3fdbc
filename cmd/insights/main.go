package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/config"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/handler"
	"github.com/boddenberg/pocket-insights-go/internal/infra/cache"
	"github.com/boddenberg/pocket-insights-go/internal/infra/llm"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/infra/resilience"
	"github.com/boddenberg/pocket-insights-go/internal/infra/store"
	"github.com/boddenberg/pocket-insights-go/internal/port"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("db_path", cfg.DBPath),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
	)

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(ctx, cfg.OTLPEndpoint, "pocket-insights")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Store ---
	st, err := store.Open(ctx, cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	seeded, err := st.IsSeeded(ctx)
	if err != nil {
		logger.Fatal("failed to inspect store", zap.Error(err))
	}
	if !seeded && cfg.SeedOnStart {
		logger.Info("store empty, seeding", zap.String("dataset", cfg.DatasetPath))
		ds, err := store.LoadDataset(cfg.DatasetPath)
		if err != nil {
			logger.Fatal("failed to load dataset", zap.Error(err))
		}
		if err := st.Seed(ctx, ds); err != nil {
			logger.Fatal("failed to seed store", zap.Error(err))
		}
		seeded = true
	}
	if !seeded {
		logger.Fatal("database not seeded, run cmd/seed first", zap.String("db_path", cfg.DBPath))
	}
	logger.Info("database ready")

	deps := map[string]handler.Pinger{"sqlite": st}

	// --- Cache ---
	var analysisCache port.Cache[*domain.AnalysisResult]
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis[*domain.AnalysisResult](ctx, cfg.RedisURL, "pocket:analysis:", cfg.CacheTTL, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rc.Close()
		analysisCache = rc
		deps["redis"] = rc
	} else {
		mem := cache.New[*domain.AnalysisResult](cfg.CacheTTL)
		defer mem.Close()
		analysisCache = mem
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	// --- LLM clients ---
	var (
		generator port.TextGenerator
		completer port.ChatCompleter
	)

	var openRouter *llm.OpenRouter
	if cfg.OpenRouterAPIKey != "" {
		openRouter = llm.NewOpenRouter(httpClient, cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel,
			resilience.NewCircuitBreaker("openrouter"), resilienceCfg, metrics)
	}

	switch {
	case cfg.LLMProvider == config.ProviderGemini && cfg.GeminiAPIKey != "":
		g, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, resilience.NewCircuitBreaker("gemini"), resilienceCfg, metrics)
		if err != nil {
			logger.Fatal("failed to create gemini client", zap.Error(err))
		}
		generator = g
	case cfg.LLMProvider != config.ProviderGemini && openRouter != nil:
		generator = openRouter
	}
	if cfg.ChatEnabled() && openRouter != nil {
		completer = openRouter
	}

	// --- Services ---
	enhancer := service.NewEnhancer(generator, cfg.MaxConcurrency, metrics, logger)
	analysisSvc := service.NewAnalysisService(st, analysisCache, enhancer, metrics, logger)
	chatSvc := service.NewChatService(completer, analysisSvc, metrics, logger)
	analysisSvc.WithChat(chatSvc)

	if enhancer.Available() {
		logger.Info("LLM features enabled", zap.String("model", enhancer.Model()))
	} else {
		logger.Info("LLM features disabled (set OPENROUTER_API_KEY or LLM_PROVIDER=gemini with GEMINI_API_KEY to enable)")
	}
	if chatSvc.Available() {
		logger.Info("chat service enabled", zap.String("model", cfg.OpenRouterModel))
	} else {
		logger.Info("chat service disabled (set OPENROUTER_API_KEY and OPENROUTER_MODEL to enable)")
	}

	// --- Router ---
	router := handler.NewRouter(analysisSvc, chatSvc, metrics, handler.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Dependencies:   deps,
	}, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
