package analysis

import "github.com/boddenberg/pocket-insights-go/internal/domain"

// Compute runs every aggregator over txs. Insights are left empty; they are
// produced by the insights package from this result.
func Compute(txs []domain.Transaction, period domain.Period) *domain.AnalysisResult {
	monthly := CalculateMonthlyCashflow(txs)

	return &domain.AnalysisResult{
		Period:            period,
		Summary:           CalculateSummary(txs),
		MonthlyCashflow:   monthly,
		DailyCashflow:     CalculateDailyCashflow(txs),
		ExpenseByCategory: CalculateCategoryBreakdown(txs, domain.TransactionExpense),
		IncomeByCategory:  CalculateCategoryBreakdown(txs, domain.TransactionIncome),
		Trends:            AnalyzeTrends(monthly),
		Insights:          []domain.Insight{},
	}
}
