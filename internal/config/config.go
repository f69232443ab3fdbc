package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM providers selectable through LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port           int
	LogLevel       string
	AllowedOrigins []string

	// Data
	DBPath      string
	DatasetPath string
	SeedOnStart bool // seed from DatasetPath when the store is empty

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration // 0 disables caching
	RedisURL string

	// Observability
	OTLPEndpoint string

	// LLM
	LLMProvider       string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
	GeminiAPIKey      string
	GeminiModel       string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 3000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),

		DBPath:      getEnv("DB_PATH", "data/transactions.db"),
		DatasetPath: getEnv("DATASET_PATH", "data/transactions.json"),
		SeedOnStart: getEnvBool("SEED_ON_START", false),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 200*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 5),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisURL: getEnv("REDIS_URL", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenRouter)),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", ""),
	}
}

// LLMEnabled reports whether the configured provider has credentials.
func (c *Config) LLMEnabled() bool {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey != ""
	}
	return c.OpenRouterAPIKey != ""
}

// ChatEnabled requires an explicit OpenRouter model; chat needs tool calling.
func (c *Config) ChatEnabled() bool {
	return c.OpenRouterAPIKey != "" && c.OpenRouterModel != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
