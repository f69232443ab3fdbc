// Package store is the SQLite-backed transaction store. The schema is
// managed by embedded golang-migrate migrations and filled by Seed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boddenberg/pocket-insights-go/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("store")

const defaultCurrency = "IDR"

// Store implements port.TransactionStore on a SQLite file.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates the database directory if needed, connects, enables WAL and
// applies migrations.
func Open(ctx context.Context, dbPath string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("store: sqlite ready", zap.String("path", dbPath))
	return &Store{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the connection, used by /readyz.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetTransactions returns the wallet's transactions within the inclusive
// window, ordered by date. Dates compare as strings, which is chronological
// for YYYY-MM-DD.
func (s *Store) GetTransactions(ctx context.Context, walletID, startDate, endDate string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Store.GetTransactions")
	defer span.End()
	span.SetAttributes(
		attribute.String("wallet.id", walletID),
		attribute.String("period.start", startDate),
		attribute.String("period.end", endDate),
	)

	var query strings.Builder
	query.WriteString(`SELECT id, wallet_id, type, category, amount, currency, transaction_date, created_at
		FROM transactions WHERE wallet_id = ?`)
	args := []any{walletID}

	if startDate != "" {
		query.WriteString(" AND transaction_date >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		query.WriteString(" AND transaction_date <= ?")
		args = append(args, endDate)
	}
	query.WriteString(" ORDER BY transaction_date ASC, id ASC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		s.logger.Error("store: query transactions failed", zap.String("wallet_id", walletID), zap.Error(err))
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.WalletID, &typ, &t.Category, &t.Amount, &t.Currency, &t.TransactionDate, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	span.SetAttributes(attribute.Int("transactions.count", len(txs)))
	return txs, nil
}

// GetDateRange returns the seeded period, or MIN/MAX of the stored dates
// when the meta rows are missing.
func (s *Store) GetDateRange(ctx context.Context) (domain.Period, error) {
	ctx, span := tracer.Start(ctx, "Store.GetDateRange")
	defer span.End()

	start, okStart, err := s.metaValue(ctx, "start_date")
	if err != nil {
		return domain.Period{}, err
	}
	end, okEnd, err := s.metaValue(ctx, "end_date")
	if err != nil {
		return domain.Period{}, err
	}
	if okStart && okEnd {
		return domain.Period{StartDate: start, EndDate: end}, nil
	}

	var minDate, maxDate sql.NullString
	err = s.db.QueryRowContext(ctx,
		"SELECT MIN(transaction_date), MAX(transaction_date) FROM transactions",
	).Scan(&minDate, &maxDate)
	if err != nil {
		return domain.Period{}, fmt.Errorf("query date range: %w", err)
	}
	return domain.Period{StartDate: minDate.String, EndDate: maxDate.String}, nil
}

// GetDatasetStats summarises the dataset for the health endpoint.
func (s *Store) GetDatasetStats(ctx context.Context) (*domain.DatasetStats, error) {
	ctx, span := tracer.Start(ctx, "Store.GetDatasetStats")
	defer span.End()

	stats := &domain.DatasetStats{WalletIDs: []string{}}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&stats.TotalTransactions); err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT wallet_id FROM transactions ORDER BY wallet_id")
	if err != nil {
		return nil, fmt.Errorf("query wallet ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wallet id: %w", err)
		}
		stats.WalletIDs = append(stats.WalletIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet ids: %w", err)
	}

	period, err := s.GetDateRange(ctx)
	if err != nil {
		return nil, err
	}
	stats.Period = period

	currency, ok, err := s.metaValue(ctx, "currency")
	if err != nil {
		return nil, err
	}
	stats.Currency = defaultCurrency
	if ok {
		stats.Currency = currency
	}
	return stats, nil
}

// IsSeeded reports whether at least one transaction is stored.
func (s *Store) IsSeeded(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return false, fmt.Errorf("count transactions: %w", err)
	}
	return count > 0, nil
}

func (s *Store) metaValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %q: %w", key, err)
	}
	return value, true, nil
}
