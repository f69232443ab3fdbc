package analysis

import (
	"sort"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
)

const (
	minAnomalySamples = 3
	anomalyZScore     = 2.0
)

// DetectAnomalies flags transactions of txType whose amount lies more than
// two population standard deviations from the mean. The mean and spread
// include the outliers themselves. Fewer than three samples, or a zero
// spread, yields no anomalies. Results are ordered by amount, largest first.
func DetectAnomalies(txs []domain.Transaction, txType domain.TransactionType) []domain.Transaction {
	sample := make([]domain.Transaction, 0)
	amounts := make([]float64, 0)
	for _, tx := range txs {
		if tx.Type == txType {
			sample = append(sample, tx)
			amounts = append(amounts, float64(tx.Amount))
		}
	}

	out := make([]domain.Transaction, 0)
	if len(sample) < minAnomalySamples {
		return out
	}

	variance := PopulationVariance(amounts)
	if variance == 0 {
		return out
	}

	mean := Mean(amounts)
	stdDev := PopulationStdDev(amounts)
	upper := mean + anomalyZScore*stdDev
	lower := mean - anomalyZScore*stdDev

	for i, tx := range sample {
		if amounts[i] > upper || amounts[i] < lower {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Amount > out[b].Amount
	})
	return out
}
