package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/boddenberg/pocket-insights-go/internal/analysis"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/format"
)

const defaultSearchLimit = 10

func dateParams(extra map[string]any, required ...string) map[string]any {
	props := map[string]any{
		"start_date": map[string]any{"type": "string", "description": "Start date in YYYY-MM-DD format"},
		"end_date":   map[string]any{"type": "string", "description": "End date in YYYY-MM-DD format"},
	}
	for k, v := range extra {
		props[k] = v
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var typeEnum = map[string]any{"type": "string", "enum": []string{"INCOME", "EXPENSE"}}

var chatToolDefinitions = []domain.ToolDefinition{
	{
		Name:        "getSummary",
		Description: "Get financial summary including total income, total expense, net cashflow, and transaction count for a date range",
		Parameters:  dateParams(nil),
	},
	{
		Name:        "getCategoryBreakdown",
		Description: "Get breakdown of spending or income by category, sorted by amount descending",
		Parameters: dateParams(map[string]any{
			"type": map[string]any{"type": "string", "enum": []string{"INCOME", "EXPENSE"}, "description": "Type of transactions to analyze"},
		}, "type"),
	},
	{
		Name:        "getMonthlyCashflow",
		Description: "Get monthly cashflow data showing income, expense, and net for each month",
		Parameters:  dateParams(nil),
	},
	{
		Name:        "getTrends",
		Description: "Get spending trend analysis including whether spending is increasing/decreasing/stable, growth rate, and peak/lowest spending months",
		Parameters:  dateParams(nil),
	},
	{
		Name:        "searchTransactions",
		Description: "Search and filter transactions by category, type, or date range. Returns a list of matching transactions.",
		Parameters: dateParams(map[string]any{
			"category": map[string]any{"type": "string", "description": "Filter by category name (case-insensitive partial match)"},
			"type":     typeEnum,
			"limit":    map[string]any{"type": "number", "description": "Maximum number of transactions to return (default 10)"},
		}),
	},
	{
		Name:        "getDatasetInfo",
		Description: "Get information about the available transaction dataset including date range and total records",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
	},
}

type toolArgs struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Limit     *float64 `json:"limit"`
}

// chatTools executes tool calls for one wallet. Missing dates default to
// the dataset range captured at construction.
type chatTools struct {
	analysis *AnalysisService
	pocketID string
	dataset  domain.Period
}

func newChatTools(ctx context.Context, svc *AnalysisService, pocketID string) (*chatTools, error) {
	rng, err := svc.store.GetDateRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset range: %w", err)
	}
	return &chatTools{analysis: svc, pocketID: pocketID, dataset: rng}, nil
}

type toolError struct {
	Error string `json:"error"`
}

// run never fails the chat; errors are reported back to the model.
func (t *chatTools) run(ctx context.Context, name string, raw json.RawMessage) any {
	var args toolArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return toolError{Error: "invalid arguments: " + err.Error()}
		}
	}

	period := t.period(args)
	txs, err := t.analysis.store.GetTransactions(ctx, t.pocketID, period.StartDate, period.EndDate)
	if err != nil {
		return toolError{Error: err.Error()}
	}

	switch name {
	case "getSummary":
		return summaryResult(period, analysis.CalculateSummary(txs))
	case "getCategoryBreakdown":
		if !domain.TransactionType(args.Type).Valid() {
			return toolError{Error: "type must be INCOME or EXPENSE"}
		}
		return categoryResult(period, domain.TransactionType(args.Type), analysis.CalculateCategoryBreakdown(txs, domain.TransactionType(args.Type)))
	case "getMonthlyCashflow":
		return monthlyResult(period, analysis.CalculateMonthlyCashflow(txs))
	case "getTrends":
		tr := analysis.AnalyzeTrends(analysis.CalculateMonthlyCashflow(txs))
		return map[string]any{
			"period":                period,
			"spending_trend":        tr.SpendingTrend,
			"monthly_growth_rate":   tr.MonthlyGrowthRate,
			"peak_spending_month":   tr.PeakSpendingMonth,
			"lowest_spending_month": tr.LowestSpendingMonth,
		}
	case "searchTransactions":
		if args.Type != "" && !domain.TransactionType(args.Type).Valid() {
			return toolError{Error: "type must be INCOME or EXPENSE"}
		}
		return searchResult(period, args, txs)
	case "getDatasetInfo":
		return map[string]any{
			"start_date":         t.dataset.StartDate,
			"end_date":           t.dataset.EndDate,
			"total_transactions": len(txs),
			"pocket_id":          t.pocketID,
		}
	default:
		return toolError{Error: "unknown tool: " + name}
	}
}

func (t *chatTools) period(args toolArgs) domain.Period {
	p := t.dataset
	if args.StartDate != "" {
		p.StartDate = args.StartDate
	}
	if args.EndDate != "" {
		p.EndDate = args.EndDate
	}
	return p
}

func summaryResult(period domain.Period, s domain.Summary) map[string]any {
	return map[string]any{
		"period":                  period,
		"total_income":            s.TotalIncome,
		"total_income_formatted":  format.CurrencyInt(s.TotalIncome),
		"total_expense":           s.TotalExpense,
		"total_expense_formatted": format.CurrencyInt(s.TotalExpense),
		"net_cashflow":            s.NetCashflow,
		"net_cashflow_formatted":  format.CurrencyInt(s.NetCashflow),
		"net_cashflow_short":      format.CurrencyShort(float64(s.NetCashflow)),
		"transaction_count":       s.TransactionCount,
	}
}

func categoryResult(period domain.Period, txType domain.TransactionType, cats []domain.CategoryBreakdown) map[string]any {
	rows := make([]map[string]any, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, map[string]any{
			"category":             c.Category,
			"amount":               c.Amount,
			"amount_formatted":     format.CurrencyInt(c.Amount),
			"percentage":           c.Percentage,
			"percentage_formatted": format.Percentage(float64(c.Percentage), 0),
			"transaction_count":    c.TransactionCount,
		})
	}
	return map[string]any{"period": period, "type": txType, "categories": rows}
}

func monthlyResult(period domain.Period, months []domain.MonthlyCashflow) map[string]any {
	rows := make([]map[string]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, map[string]any{
			"month":             m.Month,
			"month_label":       format.Month(m.Month),
			"income":            m.Income,
			"income_formatted":  format.CurrencyInt(m.Income),
			"expense":           m.Expense,
			"expense_formatted": format.CurrencyInt(m.Expense),
			"net":               m.Net,
			"net_formatted":     format.CurrencyInt(m.Net),
		})
	}
	return map[string]any{"period": period, "monthly_data": rows}
}

func searchResult(period domain.Period, args toolArgs, txs []domain.Transaction) map[string]any {
	limit := defaultSearchLimit
	if args.Limit != nil && *args.Limit >= 1 {
		limit = int(*args.Limit)
	}
	needle := strings.ToLower(args.Category)

	matched := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if args.Type != "" && string(tx.Type) != args.Type {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(tx.Category), needle) {
			continue
		}
		matched = append(matched, tx)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].TransactionDate > matched[j].TransactionDate
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	rows := make([]map[string]any, 0, len(matched))
	for _, tx := range matched {
		rows = append(rows, map[string]any{
			"id":               tx.ID,
			"date":             tx.TransactionDate,
			"date_formatted":   format.Date(tx.TransactionDate),
			"type":             tx.Type,
			"category":         tx.Category,
			"amount":           tx.Amount,
			"amount_formatted": format.CurrencyInt(tx.Amount),
		})
	}

	filters := map[string]any{}
	if args.Category != "" {
		filters["category"] = args.Category
	}
	if args.Type != "" {
		filters["type"] = args.Type
	}

	return map[string]any{
		"period":       period,
		"filters":      filters,
		"count":        len(rows),
		"transactions": rows,
	}
}
