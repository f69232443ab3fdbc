package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/format"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/infra/resilience"
	"github.com/boddenberg/pocket-insights-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const enhancerSystemPrompt = `Anda adalah asisten keuangan pribadi yang membantu pengguna memahami pola pengeluaran dan membuat keputusan finansial yang lebih baik.

Penting:
- Selalu tulis dalam Bahasa Indonesia
- Format mata uang sebagai Rupiah (Rp X.XXX.XXX)
- Sertakan persentase untuk konteks bila relevan
- Ringkas tapi informatif
- Berikan saran yang spesifik dan bisa dilakukan
- Gunakan nada profesional namun ramah

Fokus pada:
- Mengidentifikasi pola pengeluaran/pendapatan
- Menyoroti area yang perlu diwaspadai
- Memberi rekomendasi yang actionable`

// EnhanceContext is the financial backdrop given to the model.
type EnhanceContext struct {
	Summary           domain.Summary
	ExpenseByCategory []domain.CategoryBreakdown
	IncomeByCategory  []domain.CategoryBreakdown
}

// Enhancer asks a language model for a short deep analysis of each insight.
// A nil generator disables it; every failure falls back to the rule text.
type Enhancer struct {
	gen      port.TextGenerator
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewEnhancer(gen port.TextGenerator, maxConcurrency int, metrics *observability.Metrics, logger *zap.Logger) *Enhancer {
	return &Enhancer{
		gen:      gen,
		bulkhead: resilience.NewBulkhead(maxConcurrency),
		metrics:  metrics,
		logger:   logger,
	}
}

func (e *Enhancer) Available() bool {
	return e != nil && e.gen != nil
}

// Model names the backing model, or "" when disabled.
func (e *Enhancer) Model() string {
	if !e.Available() {
		return ""
	}
	return e.gen.Model()
}

// EnhanceInsights enhances every insight concurrently and returns them in
// input order. A failed insight is returned unchanged; siblings carry on.
func (e *Enhancer) EnhanceInsights(ctx context.Context, ins []domain.Insight, ec EnhanceContext) []domain.Insight {
	if !e.Available() || len(ins) == 0 {
		return ins
	}

	ctx, span := tracer.Start(ctx, "Enhancer.EnhanceInsights")
	defer span.End()
	span.SetAttributes(attribute.Int("insights.count", len(ins)))

	start := time.Now()
	defer func() {
		e.metrics.RecordRequestDuration("enhance_insights", time.Since(start))
	}()

	contextStr := BuildContext(ec)
	out := make([]domain.Insight, len(ins))

	var g errgroup.Group
	for i, in := range ins {
		g.Go(func() error {
			out[i] = e.enhance(ctx, in, contextStr)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// EnhanceInsight fills DeepAnalysis for a single insight.
func (e *Enhancer) EnhanceInsight(ctx context.Context, in domain.Insight, ec EnhanceContext) domain.Insight {
	if !e.Available() {
		return in
	}
	return e.enhance(ctx, in, BuildContext(ec))
}

func (e *Enhancer) enhance(ctx context.Context, in domain.Insight, contextStr string) domain.Insight {
	if err := e.bulkhead.Acquire(ctx); err != nil {
		e.fallback(in, err)
		return in
	}
	defer e.bulkhead.Release()

	resp, err := e.gen.Generate(ctx, enhancerSystemPrompt, insightPrompt(in, contextStr))
	if err != nil {
		e.fallback(in, err)
		return in
	}
	if resp.Text == "" {
		e.fallback(in, fmt.Errorf("empty completion"))
		return in
	}

	e.metrics.IncrEnhancement(observability.OutcomeEnhanced)
	in.DeepAnalysis = resp.Text
	return in
}

func (e *Enhancer) fallback(in domain.Insight, err error) {
	e.metrics.IncrEnhancement(observability.OutcomeFallback)
	e.logger.Warn("insight enhancement failed, keeping rule text",
		zap.String("title", in.Title),
		zap.String("model", e.gen.Model()),
		zap.Error(err),
	)
}

// Summarize writes a 3-4 sentence overview of the wallet. ok is false when
// the enhancer is disabled or the model call fails.
func (e *Enhancer) Summarize(ctx context.Context, ec EnhanceContext, ins []domain.Insight) (string, bool) {
	if !e.Available() {
		return "", false
	}

	ctx, span := tracer.Start(ctx, "Enhancer.Summarize")
	defer span.End()

	lines := make([]string, 0, len(ins))
	for _, in := range ins {
		lines = append(lines, fmt.Sprintf("- %s: %s", in.Title, in.Message))
	}

	prompt := fmt.Sprintf(`Berdasarkan data keuangan berikut, buat ringkasan singkat (3-4 kalimat) mengenai kesehatan finansial pengguna dalam Bahasa Indonesia.

Konteks Finansial:
%s

Insight Utama:
%s

Rangkum situasi keuangan pengguna secara membantu dan suportif, sambil menyoroti area yang perlu perhatian.`, BuildContext(ec), strings.Join(lines, "\n"))

	resp, err := e.gen.Generate(ctx, enhancerSystemPrompt, prompt)
	if err != nil || resp.Text == "" {
		e.logger.Warn("llm summary failed", zap.Error(err))
		return "", false
	}
	return resp.Text, true
}

func insightPrompt(in domain.Insight, contextStr string) string {
	return fmt.Sprintf(`Tingkatkan insight keuangan berikut dengan analisis mendalam 2-3 kalimat dalam Bahasa Indonesia yang menjelaskan signifikansinya dan memberi saran yang bisa dilakukan.

Insight Type: %s
Title: %s
Message: %s

Konteks Finansial:
%s

Buat deep analysis yang:
1. Menjelaskan mengapa ini penting bagi kesehatan finansial pengguna
2. Memberi rekomendasi yang spesifik dan actionable
3. Menggunakan angka konkret dari konteks bila relevan

Batasi 2-3 kalimat, profesional namun ramah.`, in.Type, in.Title, in.Message, contextStr)
}

// BuildContext renders the figures every prompt is grounded on.
func BuildContext(ec EnhanceContext) string {
	s := ec.Summary

	savingsRate := "0"
	if s.TotalIncome > 0 {
		savingsRate = format.Fixed(float64(s.NetCashflow)/float64(s.TotalIncome)*100, 1)
	}

	return strings.TrimSpace(strings.Join([]string{
		"Total Income: " + format.CurrencyInt(s.TotalIncome),
		"Total Expenses: " + format.CurrencyInt(s.TotalExpense),
		"Net Cashflow: " + format.CurrencyInt(s.NetCashflow),
		"Savings Rate: " + savingsRate + "%",
		fmt.Sprintf("Transaction Count: %d", s.TransactionCount),
		"Top Expense Categories: " + topCategories(ec.ExpenseByCategory),
		"Top Income Sources: " + topCategories(ec.IncomeByCategory),
	}, "\n"))
}

func topCategories(cats []domain.CategoryBreakdown) string {
	if len(cats) > 3 {
		cats = cats[:3]
	}
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s: %s (%d%%)", c.Category, format.CurrencyInt(c.Amount), c.Percentage))
	}
	return strings.Join(parts, ", ")
}
