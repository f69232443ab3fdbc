// Package analysis holds the pure aggregation functions behind every
// dashboard figure. Callers pass transactions already filtered to one wallet
// and an inclusive date window; nothing here touches storage or mutates its
// input.
package analysis

import (
	"sort"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
)

// CalculateSummary sums income and expense over txs.
func CalculateSummary(txs []domain.Transaction) domain.Summary {
	var s domain.Summary
	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionIncome:
			s.TotalIncome += tx.Amount
		case domain.TransactionExpense:
			s.TotalExpense += tx.Amount
		}
	}
	s.NetCashflow = s.TotalIncome - s.TotalExpense
	s.TransactionCount = len(txs)
	return s
}

type bucket struct {
	income  int64
	expense int64
}

// groupByKey buckets txs by key(tx) and returns the keys in ascending order.
func groupByKey(txs []domain.Transaction, key func(domain.Transaction) string) ([]string, map[string]*bucket) {
	buckets := make(map[string]*bucket)
	keys := make([]string, 0)
	for _, tx := range txs {
		k := key(tx)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
			keys = append(keys, k)
		}
		switch tx.Type {
		case domain.TransactionIncome:
			b.income += tx.Amount
		case domain.TransactionExpense:
			b.expense += tx.Amount
		}
	}
	sort.Strings(keys)
	return keys, buckets
}

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// CalculateMonthlyCashflow groups txs by YYYY-MM. Months without
// transactions are omitted.
func CalculateMonthlyCashflow(txs []domain.Transaction) []domain.MonthlyCashflow {
	keys, buckets := groupByKey(txs, func(tx domain.Transaction) string {
		return monthOf(tx.TransactionDate)
	})

	out := make([]domain.MonthlyCashflow, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, domain.MonthlyCashflow{
			Month:   k,
			Income:  b.income,
			Expense: b.expense,
			Net:     b.income - b.expense,
		})
	}
	return out
}

// CalculateDailyCashflow groups txs by full date. The caller decides how
// long a range is sensible to chart.
func CalculateDailyCashflow(txs []domain.Transaction) []domain.DailyCashflow {
	keys, buckets := groupByKey(txs, func(tx domain.Transaction) string {
		return tx.TransactionDate
	})

	out := make([]domain.DailyCashflow, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, domain.DailyCashflow{
			Date:    k,
			Income:  b.income,
			Expense: b.expense,
			Net:     b.income - b.expense,
		})
	}
	return out
}

// CalculateCategoryBreakdown ranks the categories of one transaction type by
// amount. Percentages are rounded independently, so they may not add up to
// exactly 100.
func CalculateCategoryBreakdown(txs []domain.Transaction, txType domain.TransactionType) []domain.CategoryBreakdown {
	var total int64
	index := make(map[string]int)
	rows := make([]domain.CategoryBreakdown, 0)

	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		total += tx.Amount

		i, ok := index[tx.Category]
		if !ok {
			i = len(rows)
			index[tx.Category] = i
			rows = append(rows, domain.CategoryBreakdown{Category: tx.Category})
		}
		rows[i].Amount += tx.Amount
		rows[i].TransactionCount++
	}

	for i := range rows {
		if total > 0 {
			rows[i].Percentage = int(RoundHalfUp(float64(rows[i].Amount) / float64(total) * 100))
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Amount > rows[b].Amount
	})
	return rows
}

// CategoryMonthlyTrend returns the monthly expense totals of one category.
func CategoryMonthlyTrend(txs []domain.Transaction, category string) []domain.CategoryMonthPoint {
	filtered := make([]domain.Transaction, 0)
	for _, tx := range txs {
		if tx.Type == domain.TransactionExpense && tx.Category == category {
			filtered = append(filtered, tx)
		}
	}

	keys, buckets := groupByKey(filtered, func(tx domain.Transaction) string {
		return monthOf(tx.TransactionDate)
	})

	out := make([]domain.CategoryMonthPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.CategoryMonthPoint{Month: k, Amount: buckets[k].expense})
	}
	return out
}
