package insights_test

import (
	"fmt"
	"testing"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date string, typ domain.TransactionType, category string, amount int64) domain.Transaction {
	return domain.Transaction{
		WalletID:        "pocket-1",
		Type:            typ,
		Category:        category,
		Amount:          amount,
		Currency:        "IDR",
		TransactionDate: date,
	}
}

func repeat(n int, typ domain.TransactionType, category string, amount int64) []domain.Transaction {
	out := make([]domain.Transaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tx(fmt.Sprintf("2024-01-%02d", 1+i%28), typ, category, amount))
	}
	return out
}

// monthlySeries emits one expense per month starting in January.
func monthlySeries(category string, amounts ...int64) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(amounts))
	for i, a := range amounts {
		out = append(out, tx(fmt.Sprintf("2024-%02d-10", i+1), domain.TransactionExpense, category, a))
	}
	return out
}

func TestHighSpending(t *testing.T) {
	got := insights.HighSpending(insights.Input{
		ExpenseByCategory: []domain.CategoryBreakdown{
			{Category: "food", Amount: 3_000_000, Percentage: 30, TransactionCount: 12},
			{Category: "transport", Amount: 2_500_000, Percentage: 25, TransactionCount: 4},
			{Category: "health", Amount: 2_400_000, Percentage: 24, TransactionCount: 2},
		},
	})

	require.Len(t, got, 2)
	assert.Equal(t, domain.InsightWarning, got[0].Type)
	assert.Equal(t, "Pengeluaran Makanan Tinggi", got[0].Title)
	assert.Equal(t, "Pengeluaran kategori Makanan mencapai 30% dari total pengeluaran", got[0].Message)
	assert.Contains(t, got[0].DeepAnalysis, "mencapai Rp 3.000.000, menjadikannya kategori terbesar dengan 12 transaksi")

	assert.Equal(t, "Pengeluaran Transportasi Tinggi", got[1].Title)
	assert.Contains(t, got[1].DeepAnalysis, "menjadikannya kategori yang signifikan dengan 4 transaksi")
}

func TestSpendingTrend_Increasing(t *testing.T) {
	got := insights.SpendingTrend(insights.Input{
		Trends: domain.TrendAnalysis{
			SpendingTrend:       domain.TrendIncreasing,
			MonthlyGrowthRate:   12.5,
			PeakSpendingMonth:   "2024-06",
			LowestSpendingMonth: "2024-01",
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, domain.InsightTrend, got[0].Type)
	assert.Equal(t, "Tren Pengeluaran Meningkat", got[0].Title)
	assert.Equal(t, "Total pengeluaran meningkat 12.5% selama periode analisis", got[0].Message)
	assert.Contains(t, got[0].DeepAnalysis, "Puncak pengeluaran terjadi pada 2024-06 sementara yang terendah pada 2024-01")
}

func TestSpendingTrend_MildIncreaseIsQuiet(t *testing.T) {
	got := insights.SpendingTrend(insights.Input{
		Trends: domain.TrendAnalysis{SpendingTrend: domain.TrendIncreasing, MonthlyGrowthRate: 8},
	})
	assert.Empty(t, got)
}

func TestSpendingTrend_Decreasing(t *testing.T) {
	got := insights.SpendingTrend(insights.Input{
		Trends: domain.TrendAnalysis{SpendingTrend: domain.TrendDecreasing, MonthlyGrowthRate: -7.5, LowestSpendingMonth: "2024-04"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Pengeluaran Mulai Terkendali", got[0].Title)
	assert.Equal(t, "Kabar baik! Total pengeluaran turun 7.5% selama periode analisis", got[0].Message)
	assert.Contains(t, got[0].DeepAnalysis, "2024-04")
}

func TestSpendingTrend_Volatility(t *testing.T) {
	got := insights.SpendingTrend(insights.Input{
		Trends: domain.TrendAnalysis{SpendingTrend: domain.TrendStable},
		MonthlyCashflow: []domain.MonthlyCashflow{
			{Month: "2024-01", Expense: 100},
			{Month: "2024-02", Expense: 100},
			{Month: "2024-03", Expense: 400},
		},
	})

	require.Len(t, got, 1)
	assert.Equal(t, domain.InsightWarning, got[0].Type)
	assert.Equal(t, "Pola Pengeluaran Tidak Konsisten", got[0].Title)
	assert.Equal(t, "Pengeluaran bulanan Anda berfluktuasi cukup besar (~71%)", got[0].Message)
}

func TestSpendingTrend_VolatilityNeedsThreeMonths(t *testing.T) {
	got := insights.SpendingTrend(insights.Input{
		Trends: domain.TrendAnalysis{SpendingTrend: domain.TrendStable},
		MonthlyCashflow: []domain.MonthlyCashflow{
			{Month: "2024-01", Expense: 10},
			{Month: "2024-02", Expense: 1000},
		},
	})
	assert.Empty(t, got)
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name        string
		income      int64
		expense     int64
		wantType    domain.InsightType
		wantTitle   string
		wantMessage string
	}{
		{"negative cashflow", 1_000_000, 1_200_000, domain.InsightWarning, "Arus Kas Negatif", "Pengeluaran Anda melebihi pendapatan sebesar Rp 200.000"},
		{"zero savings", 1_000_000, 1_000_000, domain.InsightRecommendation, "Peluang Meningkatkan Tabungan", "Tingkat tabungan saat ini 0%, di bawah rekomendasi 20%"},
		{"low savings", 10_000_000, 9_000_000, domain.InsightRecommendation, "Peluang Meningkatkan Tabungan", "Tingkat tabungan saat ini 10%, di bawah rekomendasi 20%"},
		{"exactly at target", 10_000_000, 8_000_000, domain.InsightTrend, "Tingkat Tabungan Sehat", "Bagus! Anda menabung sekitar 20% dari pendapatan"},
		{"healthy", 10_000_000, 7_500_000, domain.InsightTrend, "Tingkat Tabungan Sehat", "Bagus! Anda menabung sekitar 25% dari pendapatan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := insights.SavingsRate(insights.Input{Summary: domain.Summary{
				TotalIncome:  tt.income,
				TotalExpense: tt.expense,
				NetCashflow:  tt.income - tt.expense,
			}})

			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.wantTitle, got[0].Title)
			assert.Equal(t, tt.wantMessage, got[0].Message)
			assert.NotEmpty(t, got[0].DeepAnalysis)
		})
	}
}

func TestSavingsRate_SkippedWithoutIncome(t *testing.T) {
	got := insights.SavingsRate(insights.Input{Summary: domain.Summary{TotalExpense: 500, NetCashflow: -500}})
	assert.Empty(t, got)
}

func TestAnomalies(t *testing.T) {
	txs := repeat(20, domain.TransactionExpense, "food", 100)
	txs = append(txs,
		tx("2024-01-22", domain.TransactionExpense, "shopping", 1000),
		tx("2024-01-23", domain.TransactionExpense, "shopping", 1100),
	)
	txs = append(txs, repeat(10, domain.TransactionIncome, "salary", 100)...)
	txs = append(txs, tx("2024-01-25", domain.TransactionIncome, "bonus", 1000))

	got := insights.Anomalies(insights.Input{Transactions: txs})

	require.Len(t, got, 2)
	assert.Equal(t, domain.InsightWarning, got[0].Type)
	assert.Equal(t, "Terdeteksi Pengeluaran Tidak Biasa", got[0].Title)
	assert.Equal(t, "Ditemukan 2 transaksi pengeluaran yang tidak biasa dengan total Rp 2.100", got[0].Message)
	assert.Contains(t, got[0].DeepAnalysis, "Kategori yang terdampak: Belanja. ")

	assert.Equal(t, domain.InsightTrend, got[1].Type)
	assert.Equal(t, "Pendapatan Tidak Biasa Terdeteksi", got[1].Title)
	assert.Equal(t, "Ditemukan 1 transaksi pendapatan yang tidak biasa dengan total Rp 1.000", got[1].Message)
}

func TestAnomalies_NoneWhenUniform(t *testing.T) {
	got := insights.Anomalies(insights.Input{Transactions: repeat(12, domain.TransactionExpense, "food", 50_000)})
	assert.Empty(t, got)
}

func TestCategoryTrend(t *testing.T) {
	var txs []domain.Transaction
	txs = append(txs, monthlySeries("food", 100, 100, 100, 200, 200, 200)...)
	txs = append(txs, monthlySeries("transport", 300, 300, 300, 100, 100, 100)...)
	txs = append(txs, monthlySeries("shopping", 50, 50)...)
	txs = append(txs, monthlySeries("health", 10, 10, 10, 90, 90, 90)...)

	got := insights.CategoryTrend(insights.Input{
		Transactions: txs,
		ExpenseByCategory: []domain.CategoryBreakdown{
			{Category: "food", Amount: 900},
			{Category: "transport", Amount: 1200},
			{Category: "shopping", Amount: 100},
			{Category: "health", Amount: 300},
		},
	})

	require.Len(t, got, 2, "only the top three categories are considered")

	assert.Equal(t, domain.InsightTrend, got[0].Type)
	assert.Equal(t, "Biaya Makanan Meningkat", got[0].Title)
	assert.Equal(t, "Pengeluaran Makanan meningkat 100% selama periode analisis", got[0].Message)
	assert.Contains(t, got[0].DeepAnalysis, "naik dari Rp 100 menjadi Rp 200 per bulan")

	assert.Equal(t, domain.InsightRecommendation, got[1].Type)
	assert.Equal(t, "Penghematan Transportasi Tercapai", got[1].Title)
	assert.Equal(t, "Pengeluaran Transportasi turun 67%", got[1].Message)
}

func TestCategoryTrend_OverlappingWindows(t *testing.T) {
	got := insights.CategoryTrend(insights.Input{
		Transactions:      monthlySeries("food", 100, 200, 300, 400),
		ExpenseByCategory: []domain.CategoryBreakdown{{Category: "food", Amount: 1000}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Pengeluaran Makanan meningkat 50% selama periode analisis", got[0].Message)
}

func TestCategoryTrend_FlatIsQuiet(t *testing.T) {
	got := insights.CategoryTrend(insights.Input{
		Transactions:      monthlySeries("food", 100, 110, 105, 100),
		ExpenseByCategory: []domain.CategoryBreakdown{{Category: "food", Amount: 415}},
	})
	assert.Empty(t, got)
}

func TestIncomeDiversity(t *testing.T) {
	single := insights.IncomeDiversity(insights.Input{IncomeByCategory: []domain.CategoryBreakdown{
		{Category: "salary", Amount: 10, Percentage: 100},
	}})
	require.Len(t, single, 1)
	assert.Equal(t, domain.InsightRecommendation, single[0].Type)
	assert.Equal(t, "Diversifikasi Sumber Pendapatan", single[0].Title)
	assert.Equal(t, "100% pendapatan berasal dari Gaji", single[0].Message)

	two := insights.IncomeDiversity(insights.Input{IncomeByCategory: []domain.CategoryBreakdown{
		{Category: "salary", Percentage: 95},
		{Category: "bonus", Percentage: 5},
	}})
	assert.Empty(t, two)

	three := insights.IncomeDiversity(insights.Input{IncomeByCategory: []domain.CategoryBreakdown{
		{Category: "salary", Percentage: 70},
		{Category: "freelance", Percentage: 20},
		{Category: "investment", Percentage: 10},
	}})
	require.Len(t, three, 1)
	assert.Equal(t, domain.InsightTrend, three[0].Type)
	assert.Equal(t, "Anda memiliki 3 sumber pendapatan", three[0].Message)

	assert.Empty(t, insights.IncomeDiversity(insights.Input{}))
}
