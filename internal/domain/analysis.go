package domain

// ============================================================
// Analysis results
// ============================================================

// Summary holds the totals of a filtered transaction set.
type Summary struct {
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	NetCashflow      int64 `json:"net_cashflow"`
	TransactionCount int   `json:"transaction_count"`
}

// MonthlyCashflow is one YYYY-MM bucket.
type MonthlyCashflow struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// DailyCashflow is one YYYY-MM-DD bucket.
type DailyCashflow struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Net     int64  `json:"net"`
}

// CategoryBreakdown is the share of one category within a transaction type.
// Percentage is an integer in [0,100].
type CategoryBreakdown struct {
	Category         string `json:"category"`
	Amount           int64  `json:"amount"`
	Percentage       int    `json:"percentage"`
	TransactionCount int    `json:"transaction_count"`
}

// SpendingTrend classifies the direction of monthly expenses.
type SpendingTrend string

const (
	TrendIncreasing SpendingTrend = "increasing"
	TrendDecreasing SpendingTrend = "decreasing"
	TrendStable     SpendingTrend = "stable"
)

// TrendAnalysis summarises how expenses move across months.
type TrendAnalysis struct {
	SpendingTrend       SpendingTrend `json:"spending_trend"`
	MonthlyGrowthRate   float64       `json:"monthly_growth_rate"`
	PeakSpendingMonth   string        `json:"peak_spending_month"`
	LowestSpendingMonth string        `json:"lowest_spending_month"`
}

// CategoryMonthPoint is the expense total of one category in one month.
type CategoryMonthPoint struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// AnalysisResult is the payload of GET /api/v1/analysis.
type AnalysisResult struct {
	Period            Period              `json:"period"`
	Summary           Summary             `json:"summary"`
	MonthlyCashflow   []MonthlyCashflow   `json:"monthly_cashflow"`
	DailyCashflow     []DailyCashflow     `json:"daily_cashflow"`
	ExpenseByCategory []CategoryBreakdown `json:"expense_by_category"`
	IncomeByCategory  []CategoryBreakdown `json:"income_by_category"`
	Trends            TrendAnalysis       `json:"trends"`
	Insights          []Insight           `json:"insights"`
	LLMSummary        string              `json:"llm_summary,omitempty"`
}
