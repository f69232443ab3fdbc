package insights_test

import (
	"testing"

	"github.com/boddenberg/pocket-insights-go/internal/analysis"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busyWallet triggers more rule output than the cap allows.
func busyWallet() []domain.Transaction {
	var txs []domain.Transaction
	txs = append(txs, monthlySeries("food", 1_000_000, 1_000_000, 1_000_000, 3_000_000, 3_000_000, 3_000_000)...)
	txs = append(txs, monthlySeries("shopping", 500_000, 500_000, 500_000, 2_500_000, 2_500_000, 2_500_000)...)
	txs = append(txs, monthlySeries("entertainment", 1_200_000, 1_200_000, 1_200_000, 1_200_000, 1_200_000, 1_200_000)...)
	txs = append(txs,
		tx("2024-01-25", domain.TransactionIncome, "salary", 10_000_000),
		tx("2024-02-25", domain.TransactionIncome, "salary", 10_000_000),
		tx("2024-03-25", domain.TransactionIncome, "salary", 10_000_000),
	)
	return txs
}

func TestGenerate_CapsAtFiveInPriorityOrder(t *testing.T) {
	txs := busyWallet()
	result := analysis.Compute(txs, domain.Period{StartDate: "2024-01-01", EndDate: "2024-06-30"})

	got := insights.FromResult(txs, result)

	require.Len(t, got, insights.MaxInsights)
	assert.Equal(t, "Pengeluaran Makanan Tinggi", got[0].Title)
	assert.Equal(t, "Pengeluaran Belanja Tinggi", got[1].Title)
	assert.Equal(t, "Pengeluaran Hiburan Tinggi", got[2].Title)
	assert.Equal(t, "Tren Pengeluaran Meningkat", got[3].Title)

	for _, in := range got {
		assert.NotEmpty(t, in.Title)
		assert.NotEmpty(t, in.Message)
		assert.NotEmpty(t, in.DeepAnalysis)
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	txs := busyWallet()
	r := analysis.Compute(txs, domain.Period{})

	first := insights.Generate(txs, r.Summary, r.ExpenseByCategory, r.IncomeByCategory, r.Trends, r.MonthlyCashflow)
	second := insights.Generate(txs, r.Summary, r.ExpenseByCategory, r.IncomeByCategory, r.Trends, r.MonthlyCashflow)

	assert.Equal(t, first, second)
}

func TestGenerate_Empty(t *testing.T) {
	r := analysis.Compute(nil, domain.Period{})
	got := insights.FromResult(nil, r)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGenerate_HealthyWallet(t *testing.T) {
	var txs []domain.Transaction
	txs = append(txs, monthlySeries("food", 900_000, 900_000, 900_000)...)
	txs = append(txs, monthlySeries("transport", 800_000, 800_000, 800_000)...)
	txs = append(txs, monthlySeries("utilities", 800_000, 800_000, 800_000)...)
	txs = append(txs, monthlySeries("health", 700_000, 700_000, 700_000)...)
	txs = append(txs, monthlySeries("education", 700_000, 700_000, 700_000)...)
	txs = append(txs,
		tx("2024-01-25", domain.TransactionIncome, "salary", 9_000_000),
		tx("2024-02-25", domain.TransactionIncome, "freelance", 2_500_000),
		tx("2024-03-25", domain.TransactionIncome, "investment", 1_000_000),
	)
	r := analysis.Compute(txs, domain.Period{})

	got := insights.FromResult(txs, r)

	// 11.7M spent of 12.5M earned: 6% savings, three income sources.
	require.Len(t, got, 2)
	assert.Equal(t, "Peluang Meningkatkan Tabungan", got[0].Title)
	assert.Equal(t, "Tingkat tabungan saat ini 6%, di bawah rekomendasi 20%", got[0].Message)
	assert.Equal(t, "Sumber Pendapatan Beragam", got[1].Title)
}

func TestApply_ConcatenatesAndTruncates(t *testing.T) {
	three := func(title string) insights.Rule {
		return insights.Rule{Name: title, Apply: func(insights.Input) []domain.Insight {
			in := domain.Insight{Type: domain.InsightTrend, Title: title, Message: "m", DeepAnalysis: "d"}
			return []domain.Insight{in, in, in}
		}}
	}

	got := insights.Apply([]insights.Rule{three("a"), three("b"), three("c")}, insights.Input{})

	require.Len(t, got, 5)
	titles := make([]string, len(got))
	for i, in := range got {
		titles[i] = in.Title
	}
	assert.Equal(t, []string{"a", "a", "a", "b", "b"}, titles)
}
