package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kharcha/internal/cli"
	"kharcha/internal/export"
	"kharcha/internal/log"
	"kharcha/internal/worker"
)

// kharcha-sync drains the local mirror into a Google spreadsheet on an
// interval. It assumes the mirror is refreshed by CLI usage; it never
// talks to the backend API itself.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelInfo, log.ComponentWorker)

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.SheetsConfigured() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the sync daemon")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	sheets, err := export.NewSheetsClient(context.Background(), export.SheetsConfig{
		SpreadsheetID: cfg.GoogleSpreadsheetID,
		SheetName:     cfg.GoogleSheetName,
	})
	if err != nil {
		logger.Error("Failed to initialize Sheets client", "error", err)
		os.Exit(1)
	}

	w := worker.NewSyncWorker(repo, sheets, worker.Config{
		PollInterval: cfg.SyncInterval,
		BatchSize:    cfg.SyncBatchSize,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.Stop(stopCtx); err != nil {
			logger.Error("Worker stop failed", "error", err)
		}
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("Worker start failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Sync daemon running",
		"interval", cfg.SyncInterval,
		"batch_size", cfg.SyncBatchSize,
		"db", cfg.SQLiteDBPath)

	cli.WaitForShutdown(ctx, done)
}
