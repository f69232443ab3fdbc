// Package insights turns aggregated figures into short, typed findings.
// Every rule is a pure function; Generate runs them in a fixed priority
// order and keeps only the first MaxInsights results.
package insights

import (
	"github.com/boddenberg/pocket-insights-go/internal/domain"
)

// MaxInsights caps the number of findings returned to the client.
const MaxInsights = 5

// Input is everything a rule may look at. Transactions must already be
// filtered to the analysed wallet and window.
type Input struct {
	Transactions      []domain.Transaction
	Summary           domain.Summary
	ExpenseByCategory []domain.CategoryBreakdown
	IncomeByCategory  []domain.CategoryBreakdown
	Trends            domain.TrendAnalysis
	MonthlyCashflow   []domain.MonthlyCashflow
}

// Rule produces zero or more insights.
type Rule struct {
	Name  string
	Apply func(in Input) []domain.Insight
}

// Rules lists the rule blocks in priority order. Later rules are dropped
// first when the cap is reached.
var Rules = []Rule{
	{Name: "high_spending", Apply: HighSpending},
	{Name: "spending_trend", Apply: SpendingTrend},
	{Name: "savings_rate", Apply: SavingsRate},
	{Name: "anomalies", Apply: Anomalies},
	{Name: "category_trend", Apply: CategoryTrend},
	{Name: "income_diversity", Apply: IncomeDiversity},
}

// Generate runs Rules over the analysis figures.
func Generate(
	txs []domain.Transaction,
	summary domain.Summary,
	expenseByCategory []domain.CategoryBreakdown,
	incomeByCategory []domain.CategoryBreakdown,
	trends domain.TrendAnalysis,
	monthlyCashflow []domain.MonthlyCashflow,
) []domain.Insight {
	return Apply(Rules, Input{
		Transactions:      txs,
		Summary:           summary,
		ExpenseByCategory: expenseByCategory,
		IncomeByCategory:  incomeByCategory,
		Trends:            trends,
		MonthlyCashflow:   monthlyCashflow,
	})
}

// FromResult is Generate fed from a computed analysis.
func FromResult(txs []domain.Transaction, r *domain.AnalysisResult) []domain.Insight {
	return Generate(txs, r.Summary, r.ExpenseByCategory, r.IncomeByCategory, r.Trends, r.MonthlyCashflow)
}

// Apply concatenates the output of rules in order and truncates it.
func Apply(rules []Rule, in Input) []domain.Insight {
	out := make([]domain.Insight, 0, MaxInsights)
	for _, rule := range rules {
		out = append(out, rule.Apply(in)...)
		if len(out) >= MaxInsights {
			return out[:MaxInsights]
		}
	}
	return out
}
