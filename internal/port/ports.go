// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the SQLite store, the caches and the LLM providers.
package port

import (
	"context"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
)

// TransactionStore reads the seeded transaction dataset.
type TransactionStore interface {
	// GetTransactions returns the wallet's transactions inside the inclusive
	// window, oldest first. Empty bounds are unbounded.
	GetTransactions(ctx context.Context, walletID, startDate, endDate string) ([]domain.Transaction, error)
	// GetDateRange returns the dataset period, falling back to the oldest and
	// newest transaction dates.
	GetDateRange(ctx context.Context) (domain.Period, error)
	GetDatasetStats(ctx context.Context) (*domain.DatasetStats, error)
	IsSeeded(ctx context.Context) (bool, error)
}

// TextGenerator produces free text from a system prompt and a user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (*domain.Completion, error)
	Model() string
}

// ChatCompleter runs one tool-aware chat completion step.
type ChatCompleter interface {
	Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.Completion, error)
	Model() string
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
