package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/analysis"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/insights"
	"github.com/boddenberg/pocket-insights-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// MaxDailyRangeDays bounds the daily cashflow view.
const MaxDailyRangeDays = 31

// AnalysisParams is a validated GET /api/v1/analysis query.
type AnalysisParams struct {
	PocketID       string
	StartDate      string
	EndDate        string
	IncludeLLM     bool
	IncludeSummary bool
}

// AnalysisOutcome pairs the result with whether LLM text was merged in.
type AnalysisOutcome struct {
	Result      *domain.AnalysisResult
	LLMEnhanced bool
}

// AnalysisService loads a wallet's transactions, runs the aggregator and the
// insight rules, and optionally hands the insights to the Enhancer.
type AnalysisService struct {
	store    port.TransactionStore
	cache    port.Cache[*domain.AnalysisResult]
	enhancer *Enhancer
	chatOn   func() bool
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewAnalysisService(
	store port.TransactionStore,
	cache port.Cache[*domain.AnalysisResult],
	enhancer *Enhancer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		store:    store,
		cache:    cache,
		enhancer: enhancer,
		chatOn:   func() bool { return false },
		metrics:  metrics,
		logger:   logger,
	}
}

// WithChat lets the health report reflect chat availability.
func (s *AnalysisService) WithChat(chat *ChatService) *AnalysisService {
	s.chatOn = chat.Available
	return s
}

// ValidateWindow checks the pocket and the optional date bounds. All
// problems are reported together, comma separated.
func ValidateWindow(pocketID, startDate, endDate string) error {
	var problems []string
	if strings.TrimSpace(pocketID) == "" {
		problems = append(problems, "pocket_id is required")
	}
	for _, d := range []string{startDate, endDate} {
		if d != "" && !domain.ValidDate(d) {
			problems = append(problems, "Invalid date format. Use YYYY-MM-DD")
		}
	}
	if len(problems) > 0 {
		return &domain.ErrValidation{Field: "query", Message: strings.Join(problems, ", ")}
	}
	return nil
}

// ResolvePeriod fills missing bounds from the dataset range.
func (s *AnalysisService) ResolvePeriod(ctx context.Context, startDate, endDate string) (domain.Period, error) {
	if startDate != "" && endDate != "" {
		return domain.Period{StartDate: startDate, EndDate: endDate}, nil
	}
	rng, err := s.store.GetDateRange(ctx)
	if err != nil {
		return domain.Period{}, fmt.Errorf("dataset range: %w", err)
	}
	if startDate == "" {
		startDate = rng.StartDate
	}
	if endDate == "" {
		endDate = rng.EndDate
	}
	return domain.Period{StartDate: startDate, EndDate: endDate}, nil
}

// Analyze computes the full analysis for a wallet. The rule-based part is
// cached per wallet and window; LLM text is never cached.
func (s *AnalysisService) Analyze(ctx context.Context, p AnalysisParams) (*AnalysisOutcome, error) {
	if err := ValidateWindow(p.PocketID, p.StartDate, p.EndDate); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "AnalysisService.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("pocket.id", p.PocketID),
		attribute.Bool("analysis.include_llm", p.IncludeLLM),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("analysis", time.Since(start))
	}()

	period, err := s.ResolvePeriod(ctx, p.StartDate, p.EndDate)
	if err != nil {
		return nil, err
	}

	base, err := s.baseResult(ctx, p.PocketID, period)
	if err != nil {
		return nil, err
	}

	result := *base
	result.Insights = append([]domain.Insight(nil), base.Insights...)

	out := &AnalysisOutcome{Result: &result}
	if !s.enhancer.Available() || (!p.IncludeLLM && !p.IncludeSummary) {
		return out, nil
	}

	ec := EnhanceContext{
		Summary:           result.Summary,
		ExpenseByCategory: result.ExpenseByCategory,
		IncomeByCategory:  result.IncomeByCategory,
	}
	if p.IncludeLLM {
		result.Insights = s.enhancer.EnhanceInsights(ctx, result.Insights, ec)
		out.LLMEnhanced = true
	}
	if p.IncludeSummary {
		if text, ok := s.enhancer.Summarize(ctx, ec, result.Insights); ok {
			result.LLMSummary = text
			out.LLMEnhanced = true
		}
	}
	return out, nil
}

func (s *AnalysisService) baseResult(ctx context.Context, pocketID string, period domain.Period) (*domain.AnalysisResult, error) {
	key := fmt.Sprintf("%s:%s:%s", pocketID, period.StartDate, period.EndDate)
	if cached, ok := s.cache.Get(key); ok && cached != nil {
		s.metrics.IncrCacheHit(observability.CacheAnalysis)
		return cached, nil
	}
	s.metrics.IncrCacheMiss(observability.CacheAnalysis)

	txs, err := s.store.GetTransactions(ctx, pocketID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if len(txs) == 0 {
		return nil, &domain.ErrNoTransactions{PocketID: pocketID}
	}

	result := analysis.Compute(txs, period)
	result.Insights = insights.FromResult(txs, result)
	for _, in := range result.Insights {
		s.metrics.IncrInsight(in.Type)
	}

	s.logger.Debug("analysis computed",
		zap.String("pocket_id", pocketID),
		zap.Int("transactions", len(txs)),
		zap.Int("insights", len(result.Insights)),
	)

	s.cache.Set(key, result)
	return result, nil
}

// Categories returns one or both category breakdowns, keyed by their JSON
// field names.
func (s *AnalysisService) Categories(ctx context.Context, pocketID, startDate, endDate, txType string) (map[string][]domain.CategoryBreakdown, error) {
	if err := ValidateWindow(pocketID, startDate, endDate); err != nil {
		return nil, err
	}
	if txType != "" && !domain.TransactionType(txType).Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "type must be INCOME or EXPENSE"}
	}

	ctx, span := tracer.Start(ctx, "AnalysisService.Categories")
	defer span.End()

	txs, _, err := s.window(ctx, pocketID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	out := map[string][]domain.CategoryBreakdown{}
	if txType == "" || txType == string(domain.TransactionExpense) {
		out["expense_by_category"] = analysis.CalculateCategoryBreakdown(txs, domain.TransactionExpense)
	}
	if txType == "" || txType == string(domain.TransactionIncome) {
		out["income_by_category"] = analysis.CalculateCategoryBreakdown(txs, domain.TransactionIncome)
	}
	return out, nil
}

func (s *AnalysisService) Monthly(ctx context.Context, pocketID, startDate, endDate string) ([]domain.MonthlyCashflow, error) {
	if err := ValidateWindow(pocketID, startDate, endDate); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "AnalysisService.Monthly")
	defer span.End()

	txs, _, err := s.window(ctx, pocketID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return analysis.CalculateMonthlyCashflow(txs), nil
}

// Daily returns per-day cashflow for at most MaxDailyRangeDays days. With no
// bounds it shows the last MaxDailyRangeDays days of the dataset.
func (s *AnalysisService) Daily(ctx context.Context, pocketID, startDate, endDate string) ([]domain.DailyCashflow, domain.Period, error) {
	if err := ValidateWindow(pocketID, startDate, endDate); err != nil {
		return nil, domain.Period{}, err
	}

	ctx, span := tracer.Start(ctx, "AnalysisService.Daily")
	defer span.End()

	if startDate == "" && endDate == "" {
		rng, err := s.store.GetDateRange(ctx)
		if err != nil {
			return nil, domain.Period{}, fmt.Errorf("dataset range: %w", err)
		}
		endDate = rng.EndDate
		if end, err := time.Parse(domain.DateLayout, endDate); err == nil {
			startDate = end.AddDate(0, 0, -(MaxDailyRangeDays - 1)).Format(domain.DateLayout)
		}
	}

	period, err := s.ResolvePeriod(ctx, startDate, endDate)
	if err != nil {
		return nil, domain.Period{}, err
	}
	if days, ok := inclusiveDays(period); ok && days > MaxDailyRangeDays {
		return nil, domain.Period{}, &domain.ErrValidation{
			Field:   "end_date",
			Message: fmt.Sprintf("daily view supports at most %d days", MaxDailyRangeDays),
		}
	}

	txs, err := s.store.GetTransactions(ctx, pocketID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, domain.Period{}, fmt.Errorf("load transactions: %w", err)
	}
	return analysis.CalculateDailyCashflow(txs), period, nil
}

// Transactions returns the wallet's transactions in the resolved window.
func (s *AnalysisService) Transactions(ctx context.Context, pocketID, startDate, endDate string) ([]domain.Transaction, domain.Period, error) {
	return s.window(ctx, pocketID, startDate, endDate)
}

func (s *AnalysisService) window(ctx context.Context, pocketID, startDate, endDate string) ([]domain.Transaction, domain.Period, error) {
	period, err := s.ResolvePeriod(ctx, startDate, endDate)
	if err != nil {
		return nil, domain.Period{}, err
	}
	txs, err := s.store.GetTransactions(ctx, pocketID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, domain.Period{}, fmt.Errorf("load transactions: %w", err)
	}
	return txs, period, nil
}

// Health reports dataset statistics and optional feature availability.
// Status is "unhealthy" with Error set when the store cannot answer.
func (s *AnalysisService) Health(ctx context.Context) *domain.APIHealth {
	ctx, span := tracer.Start(ctx, "AnalysisService.Health")
	defer span.End()

	now := time.Now().UTC().Format(time.RFC3339)

	stats, err := s.store.GetDatasetStats(ctx)
	if err != nil {
		s.logger.Error("dataset stats failed", zap.Error(err))
		return &domain.APIHealth{Status: "unhealthy", Timestamp: now, Error: err.Error()}
	}

	return &domain.APIHealth{
		Status:    "healthy",
		Timestamp: now,
		Dataset:   &domain.DatasetHealth{Loaded: true, DatasetStats: *stats},
		Features: &domain.Features{
			LLMAvailable:  s.enhancer.Available(),
			ChatAvailable: s.chatOn(),
		},
	}
}

func inclusiveDays(p domain.Period) (int, bool) {
	start, err := time.Parse(domain.DateLayout, p.StartDate)
	if err != nil {
		return 0, false
	}
	end, err := time.Parse(domain.DateLayout, p.EndDate)
	if err != nil {
		return 0, false
	}
	return int(end.Sub(start).Hours()/24) + 1, true
}
