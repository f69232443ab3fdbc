package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/boddenberg/pocket-insights-go/internal/domain"

	"go.uber.org/zap"
)

// LoadDataset reads and validates a dataset JSON file.
func LoadDataset(path string) (*domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	for _, tx := range ds.Transactions {
		if err := tx.Validate(); err != nil {
			return nil, err
		}
	}
	return &ds, nil
}

// Seed replaces the stored dataset with ds inside a single SQL transaction.
func (s *Store) Seed(ctx context.Context, ds *domain.Dataset) error {
	ctx, span := tracer.Start(ctx, "Store.Seed")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM meta", "DELETE FROM transactions"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}

	meta := [][2]string{
		{"description", ds.Meta.Description},
		{"wallet_id", ds.Meta.WalletID},
		{"currency", ds.Meta.Currency},
		{"total_transactions", strconv.Itoa(ds.Meta.TotalTransactions)},
		{"start_date", ds.Meta.Period.StartDate},
		{"end_date", ds.Meta.Period.EndDate},
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", kv[0], kv[1]); err != nil {
			return fmt.Errorf("insert meta %q: %w", kv[0], err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO transactions
		(id, wallet_id, type, category, amount, currency, transaction_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, t := range ds.Transactions {
		if _, err := insert.ExecContext(ctx,
			t.ID, t.WalletID, string(t.Type), t.Category, t.Amount, t.Currency, t.TransactionDate, t.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	s.logger.Info("store: dataset seeded",
		zap.Int("transactions", len(ds.Transactions)),
		zap.String("wallet_id", ds.Meta.WalletID),
		zap.String("start_date", ds.Meta.Period.StartDate),
		zap.String("end_date", ds.Meta.Period.EndDate),
	)
	return nil
}
