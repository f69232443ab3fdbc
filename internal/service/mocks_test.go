package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/infra/cache"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockStore struct {
	txs      []domain.Transaction
	rng      domain.Period
	err      error
	statsErr error
	calls    atomic.Int32
}

func (m *mockStore) GetTransactions(_ context.Context, walletID, startDate, endDate string) ([]domain.Transaction, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.Transaction{}
	for _, tx := range m.txs {
		if tx.WalletID != walletID {
			continue
		}
		if startDate != "" && tx.TransactionDate < startDate {
			continue
		}
		if endDate != "" && tx.TransactionDate > endDate {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (m *mockStore) GetDateRange(_ context.Context) (domain.Period, error) {
	return m.rng, m.err
}

func (m *mockStore) GetDatasetStats(_ context.Context) (*domain.DatasetStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return &domain.DatasetStats{
		TotalTransactions: len(m.txs),
		WalletIDs:         []string{"pocket-1"},
		Period:            m.rng,
		Currency:          "IDR",
	}, nil
}

func (m *mockStore) IsSeeded(_ context.Context) (bool, error) {
	return len(m.txs) > 0, nil
}

// mockGenerator echoes the insight title back, failing for titles that
// contain failOn.
type mockGenerator struct {
	failOn  string
	delay   time.Duration
	mu      sync.Mutex
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, _ string, prompt string) (*domain.Completion, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.failOn != "" && strings.Contains(prompt, m.failOn) {
		return nil, &domain.ErrExternalService{Service: "mock", Err: errors.New("boom")}
	}
	title := ""
	for _, line := range strings.Split(prompt, "\n") {
		if strings.HasPrefix(line, "Title: ") {
			title = strings.TrimPrefix(line, "Title: ")
		}
	}
	if title == "" {
		return &domain.Completion{Text: "Ringkasan keuangan."}, nil
	}
	return &domain.Completion{Text: "Analisis: " + title}, nil
}

func (m *mockGenerator) Model() string { return "mock/model" }

// mockCompleter replays scripted completions and records requests.
type mockCompleter struct {
	script   []*domain.Completion
	err      error
	requests []*domain.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req *domain.CompletionRequest) (*domain.Completion, error) {
	snapshot := *req
	snapshot.Messages = append([]domain.LLMMessage(nil), req.Messages...)
	m.requests = append(m.requests, &snapshot)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.requests) > len(m.script) {
		return m.script[len(m.script)-1], nil
	}
	return m.script[len(m.requests)-1], nil
}

func (m *mockCompleter) Model() string { return "openai/gpt-4o-mini" }

// --- Fixtures ---

func tx(id int64, typ domain.TransactionType, category string, amount int64, date string) domain.Transaction {
	return domain.Transaction{
		ID: id, WalletID: "pocket-1", Type: typ, Category: category,
		Amount: amount, Currency: "IDR", TransactionDate: date,
	}
}

func walletFixture() *mockStore {
	return &mockStore{
		rng: domain.Period{StartDate: "2024-01-01", EndDate: "2024-03-31"},
		txs: []domain.Transaction{
			tx(1, domain.TransactionIncome, "salary", 10_000_000, "2024-01-01"),
			tx(2, domain.TransactionExpense, "food", 3_000_000, "2024-01-05"),
			tx(3, domain.TransactionExpense, "transport", 500_000, "2024-01-20"),
			tx(4, domain.TransactionIncome, "salary", 10_000_000, "2024-02-01"),
			tx(5, domain.TransactionExpense, "food", 3_200_000, "2024-02-06"),
			tx(6, domain.TransactionExpense, "shopping", 800_000, "2024-02-14"),
			tx(7, domain.TransactionIncome, "salary", 10_000_000, "2024-03-01"),
			tx(8, domain.TransactionExpense, "food", 2_900_000, "2024-03-07"),
			tx(9, domain.TransactionExpense, "transport", 450_000, "2024-03-22"),
		},
	}
}

func newAnalysisService(store *mockStore, gen *mockGenerator) (*service.AnalysisService, *observability.Metrics) {
	metrics := observability.NewMetrics()
	var enhancer *service.Enhancer
	if gen != nil {
		enhancer = service.NewEnhancer(gen, 4, metrics, zap.NewNop())
	}
	svc := service.NewAnalysisService(store, cache.New[*domain.AnalysisResult](time.Minute), enhancer, metrics, zap.NewNop())
	return svc, metrics
}
