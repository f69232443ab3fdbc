// Command seed rebuilds the SQLite store from the dataset JSON file.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"

	"github.com/boddenberg/pocket-insights-go/internal/config"
	"github.com/boddenberg/pocket-insights-go/internal/infra/observability"
	"github.com/boddenberg/pocket-insights-go/internal/infra/store"

	"go.uber.org/zap"
)

func main() {
	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	datasetPath := flag.String("dataset", cfg.DatasetPath, "dataset JSON file")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database file to (re)create")
	flag.Parse()

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	if _, err := os.Stat(*datasetPath); err != nil {
		logger.Fatal("dataset not found", zap.String("path", *datasetPath), zap.Error(err))
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(*dbPath + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Fatal("failed to remove existing database", zap.String("path", *dbPath+suffix), zap.Error(err))
		}
	}

	ds, err := store.LoadDataset(*datasetPath)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}
	logger.Info("dataset loaded", zap.Int("transactions", len(ds.Transactions)))

	ctx := context.Background()
	st, err := store.Open(ctx, *dbPath, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	if err := st.Seed(ctx, ds); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}

	stats, err := st.GetDatasetStats(ctx)
	if err != nil {
		logger.Fatal("failed to read back stats", zap.Error(err))
	}
	logger.Info("database seeded",
		zap.String("db_path", *dbPath),
		zap.Int("transactions", stats.TotalTransactions),
		zap.Strings("wallets", stats.WalletIDs),
		zap.String("start_date", stats.Period.StartDate),
		zap.String("end_date", stats.Period.EndDate),
	)
}
