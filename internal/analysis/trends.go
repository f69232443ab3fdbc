package analysis

import "github.com/boddenberg/pocket-insights-go/internal/domain"

// trendThreshold is the growth percentage beyond which spending stops
// being classified as stable.
const trendThreshold = 2.0

// AnalyzeTrends classifies monthly expenses. Peak and lowest months keep the
// earliest month on ties. The growth rate compares the mean expense of the
// second half of the series with the first half.
func AnalyzeTrends(monthly []domain.MonthlyCashflow) domain.TrendAnalysis {
	if len(monthly) == 0 {
		return domain.TrendAnalysis{SpendingTrend: domain.TrendStable}
	}

	peak, lowest := monthly[0], monthly[0]
	for _, m := range monthly[1:] {
		if m.Expense > peak.Expense {
			peak = m
		}
		if m.Expense < lowest.Expense {
			lowest = m
		}
	}

	growth := halfOverHalfGrowth(monthly)

	trend := domain.TrendStable
	switch {
	case growth > trendThreshold:
		trend = domain.TrendIncreasing
	case growth < -trendThreshold:
		trend = domain.TrendDecreasing
	}

	return domain.TrendAnalysis{
		SpendingTrend:       trend,
		MonthlyGrowthRate:   RoundTo(growth, 1),
		PeakSpendingMonth:   peak.Month,
		LowestSpendingMonth: lowest.Month,
	}
}

func halfOverHalfGrowth(monthly []domain.MonthlyCashflow) float64 {
	n := len(monthly)
	if n < 2 {
		return 0
	}

	expenses := make([]float64, n)
	for i, m := range monthly {
		expenses[i] = float64(m.Expense)
	}

	mid := n / 2
	first := Mean(expenses[:mid])
	second := Mean(expenses[mid:])
	if first == 0 {
		return 0
	}
	return (second - first) / first * 100
}
