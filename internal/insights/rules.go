package insights

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/boddenberg/pocket-insights-go/internal/analysis"
	"github.com/boddenberg/pocket-insights-go/internal/domain"
	"github.com/boddenberg/pocket-insights-go/internal/format"
)

const (
	highSpendingPct       = 25 // category share that triggers a warning
	dominantSpendingPct   = 30
	growthWarningPct      = 10
	volatilityCVPct       = 30
	minVolatilityMonths   = 3
	savingsRateTargetPct  = 20
	categoryTrendTop      = 3
	categoryTrendWindow   = 3
	categoryTrendShiftPct = 15
	singleIncomeSharePct  = 90
	diverseIncomeSources  = 3
)

// decimalString prints a float the way a JS template literal would:
// no trailing zeros, no exponent for ordinary magnitudes.
func decimalString(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundInt(v float64) int64 {
	return int64(analysis.RoundHalfUp(v))
}

// HighSpending warns about every expense category at or above 25% of total
// spending.
func HighSpending(in Input) []domain.Insight {
	out := make([]domain.Insight, 0)
	for _, c := range in.ExpenseByCategory {
		if c.Percentage < highSpendingPct {
			continue
		}
		label := CategoryLabel(c.Category)
		rank := "kategori yang signifikan"
		if c.Percentage >= dominantSpendingPct {
			rank = "kategori terbesar"
		}
		out = append(out, domain.Insight{
			Type:    domain.InsightWarning,
			Title:   fmt.Sprintf("Pengeluaran %s Tinggi", label),
			Message: fmt.Sprintf("Pengeluaran kategori %s mencapai %d%% dari total pengeluaran", label, c.Percentage),
			DeepAnalysis: fmt.Sprintf(
				"Dalam periode yang dianalisis, pengeluaran %s mencapai %s, menjadikannya %s dengan %d transaksi. "+
					"Pertimbangkan meninjau pengeluaran %s yang berulang untuk menemukan peluang penghematan.",
				label, format.CurrencyInt(c.Amount), rank, c.TransactionCount, label),
		})
	}
	return out
}

// SpendingTrend reports rising or falling spending and, independently,
// month-to-month volatility.
func SpendingTrend(in Input) []domain.Insight {
	out := make([]domain.Insight, 0)
	t := in.Trends

	switch {
	case t.SpendingTrend == domain.TrendIncreasing && t.MonthlyGrowthRate > growthWarningPct:
		out = append(out, domain.Insight{
			Type:    domain.InsightTrend,
			Title:   "Tren Pengeluaran Meningkat",
			Message: fmt.Sprintf("Total pengeluaran meningkat %s%% selama periode analisis", decimalString(t.MonthlyGrowthRate)),
			DeepAnalysis: fmt.Sprintf(
				"Data menunjukkan tren kenaikan pengeluaran yang cukup konsisten. Puncak pengeluaran terjadi pada %s "+
					"sementara yang terendah pada %s. Jika dibiarkan, tren ini dapat menekan target tabungan jangka panjang.",
				t.PeakSpendingMonth, t.LowestSpendingMonth),
		})
	case t.SpendingTrend == domain.TrendDecreasing:
		out = append(out, domain.Insight{
			Type:    domain.InsightTrend,
			Title:   "Pengeluaran Mulai Terkendali",
			Message: fmt.Sprintf("Kabar baik! Total pengeluaran turun %s%% selama periode analisis", decimalString(math.Abs(t.MonthlyGrowthRate))),
			DeepAnalysis: fmt.Sprintf(
				"Pengendalian pengeluaran Anda mulai terlihat. Bulan dengan pengeluaran terendah adalah %s. "+
					"Pertahankan kebiasaan ini agar tabungan makin kuat.",
				t.LowestSpendingMonth),
		})
	}

	if len(in.MonthlyCashflow) >= minVolatilityMonths {
		expenses := make([]float64, len(in.MonthlyCashflow))
		for i, m := range in.MonthlyCashflow {
			expenses[i] = float64(m.Expense)
		}
		if cv := analysis.CoefficientOfVariation(expenses); cv > volatilityCVPct {
			out = append(out, domain.Insight{
				Type:    domain.InsightWarning,
				Title:   "Pola Pengeluaran Tidak Konsisten",
				Message: fmt.Sprintf("Pengeluaran bulanan Anda berfluktuasi cukup besar (~%d%%)", roundInt(cv)),
				DeepAnalysis: "Fluktuasi pengeluaran yang besar dapat menyulitkan penganggaran. Coba identifikasi pengeluaran " +
					"yang tidak rutin (mis. bayar tahunan/sekali-sekali) dan alokasikan pos khusus agar arus kas lebih stabil.",
			})
		}
	}
	return out
}

// SavingsRate compares net cashflow with income. Skipped without income.
func SavingsRate(in Input) []domain.Insight {
	s := in.Summary
	if s.TotalIncome == 0 {
		return []domain.Insight{}
	}

	rate := float64(s.NetCashflow) / float64(s.TotalIncome) * 100

	switch {
	case rate < 0:
		return []domain.Insight{{
			Type:    domain.InsightWarning,
			Title:   "Arus Kas Negatif",
			Message: fmt.Sprintf("Pengeluaran Anda melebihi pendapatan sebesar %s", format.CurrencyInt(absInt(s.NetCashflow))),
			DeepAnalysis: "Dalam periode ini, total pengeluaran lebih besar daripada pemasukan sehingga berisiko jika berlanjut. " +
				"Tinjau kategori pengeluaran terbesar dan tentukan pos yang bisa ditekan untuk kembali ke arus kas positif.",
		}}
	case rate < savingsRateTargetPct:
		return []domain.Insight{{
			Type:    domain.InsightRecommendation,
			Title:   "Peluang Meningkatkan Tabungan",
			Message: fmt.Sprintf("Tingkat tabungan saat ini %d%%, di bawah rekomendasi 20%%", roundInt(rate)),
			DeepAnalysis: fmt.Sprintf(
				"Umumnya disarankan menabung minimal 20%% dari pendapatan. Saat ini Anda menyisihkan sekitar %s per periode. "+
					"Mengurangi pengeluaran yang fleksibel (mis. belanja/hiburan) bisa meningkatkan kesehatan finansial secara signifikan.",
				format.CurrencyInt(s.NetCashflow)),
		}}
	default:
		return []domain.Insight{{
			Type:    domain.InsightTrend,
			Title:   "Tingkat Tabungan Sehat",
			Message: fmt.Sprintf("Bagus! Anda menabung sekitar %d%% dari pendapatan", roundInt(rate)),
			DeepAnalysis: fmt.Sprintf(
				"Tingkat tabungan Anda (%d%%) sudah melampaui patokan 20%%. Selama periode ini Anda membangun tabungan sebesar %s. "+
					"Pertahankan konsistensinya agar target finansial lebih cepat tercapai.",
				roundInt(rate), format.CurrencyInt(s.NetCashflow)),
		}}
	}
}

// Anomalies summarises statistical outliers, one insight per transaction type.
func Anomalies(in Input) []domain.Insight {
	out := make([]domain.Insight, 0)

	if expense := analysis.DetectAnomalies(in.Transactions, domain.TransactionExpense); len(expense) > 0 {
		labels := make([]string, 0)
		for _, c := range distinctCategories(expense) {
			labels = append(labels, CategoryLabel(c))
		}
		out = append(out, domain.Insight{
			Type:  domain.InsightWarning,
			Title: "Terdeteksi Pengeluaran Tidak Biasa",
			Message: fmt.Sprintf("Ditemukan %d transaksi pengeluaran yang tidak biasa dengan total %s",
				len(expense), format.CurrencyInt(sumAmounts(expense))),
			DeepAnalysis: fmt.Sprintf(
				"Nilai transaksi ini jauh lebih tinggi dibandingkan pola pengeluaran Anda. Kategori yang terdampak: %s. "+
					"Periksa kembali transaksi tersebut untuk memastikan memang diperlukan, serta cek apakah ada yang berulang.",
				strings.Join(labels, ", ")),
		})
	}

	if income := analysis.DetectAnomalies(in.Transactions, domain.TransactionIncome); len(income) > 0 {
		out = append(out, domain.Insight{
			Type:  domain.InsightTrend,
			Title: "Pendapatan Tidak Biasa Terdeteksi",
			Message: fmt.Sprintf("Ditemukan %d transaksi pendapatan yang tidak biasa dengan total %s",
				len(income), format.CurrencyInt(sumAmounts(income))),
			DeepAnalysis: "Nilai pemasukan ini jauh lebih tinggi dibandingkan biasanya. Jika ini bersifat sekali saja " +
				"(mis. bonus besar), pertimbangkan mengalokasikan sebagian ke tabungan atau investasi agar manfaatnya lebih jangka panjang.",
		})
	}
	return out
}

// CategoryTrend compares the first three and last three months of the top
// expense categories. With three to five months the two windows overlap.
func CategoryTrend(in Input) []domain.Insight {
	out := make([]domain.Insight, 0)

	top := in.ExpenseByCategory
	if len(top) > categoryTrendTop {
		top = top[:categoryTrendTop]
	}

	for _, c := range top {
		points := analysis.CategoryMonthlyTrend(in.Transactions, c.Category)
		if len(points) < categoryTrendWindow {
			continue
		}

		firstAvg := windowMean(points[:categoryTrendWindow])
		lastAvg := windowMean(points[len(points)-categoryTrendWindow:])
		if firstAvg <= 0 {
			continue
		}

		growth := (lastAvg - firstAvg) / firstAvg * 100
		label := CategoryLabel(c.Category)

		switch {
		case growth > categoryTrendShiftPct:
			out = append(out, domain.Insight{
				Type:    domain.InsightTrend,
				Title:   fmt.Sprintf("Biaya %s Meningkat", label),
				Message: fmt.Sprintf("Pengeluaran %s meningkat %d%% selama periode analisis", label, roundInt(growth)),
				DeepAnalysis: fmt.Sprintf(
					"Rata-rata pengeluaran %s naik dari %s menjadi %s per bulan. Tren ini perlu diperhatikan agar tidak "+
						"menyebabkan pembengkakan anggaran di bulan-bulan berikutnya.",
					label, format.Currency(firstAvg), format.Currency(lastAvg)),
			})
		case growth < -categoryTrendShiftPct:
			out = append(out, domain.Insight{
				Type:    domain.InsightRecommendation,
				Title:   fmt.Sprintf("Penghematan %s Tercapai", label),
				Message: fmt.Sprintf("Pengeluaran %s turun %d%%", label, roundInt(math.Abs(growth))),
				DeepAnalysis: fmt.Sprintf(
					"Rata-rata pengeluaran %s berkurang dari %s menjadi %s per bulan. Pertahankan strategi yang sama "+
						"untuk menjaga pengeluaran di kategori ini tetap terkendali.",
					label, format.Currency(firstAvg), format.Currency(lastAvg)),
			})
		}
	}
	return out
}

// IncomeDiversity flags a single dominant income source or praises three or
// more sources.
func IncomeDiversity(in Input) []domain.Insight {
	income := in.IncomeByCategory
	switch {
	case len(income) == 1 && income[0].Percentage > singleIncomeSharePct:
		top := income[0]
		return []domain.Insight{{
			Type:    domain.InsightRecommendation,
			Title:   "Diversifikasi Sumber Pendapatan",
			Message: fmt.Sprintf("%d%% pendapatan berasal dari %s", top.Percentage, CategoryLabel(top.Category)),
			DeepAnalysis: "Memiliki satu sumber pendapatan utama saja bisa berisiko. Pertimbangkan menambah sumber pendapatan " +
				"lain seperti freelance, investasi, atau proyek sampingan untuk meningkatkan ketahanan finansial.",
		}}
	case len(income) >= diverseIncomeSources:
		return []domain.Insight{{
			Type:    domain.InsightTrend,
			Title:   "Sumber Pendapatan Beragam",
			Message: fmt.Sprintf("Anda memiliki %d sumber pendapatan", len(income)),
			DeepAnalysis: "Memiliki beberapa sumber pendapatan membantu menjaga stabilitas finansial. Pertahankan diversifikasi " +
				"ini untuk mengurangi dampak jika salah satu sumber pendapatan menurun.",
		}}
	}
	return []domain.Insight{}
}

func windowMean(points []domain.CategoryMonthPoint) float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = float64(p.Amount)
	}
	return analysis.Mean(values)
}

func distinctCategories(txs []domain.Transaction) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, tx := range txs {
		if !seen[tx.Category] {
			seen[tx.Category] = true
			out = append(out, tx.Category)
		}
	}
	return out
}

func sumAmounts(txs []domain.Transaction) int64 {
	var total int64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
