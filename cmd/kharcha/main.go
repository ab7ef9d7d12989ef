package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"kharcha/internal/cli"
	"kharcha/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(slog.LevelWarn, log.ComponentCLI)

	cfg := cli.LoadAndValidateConfig(logger)
	client := cli.NewAPIClient(logger, cfg)
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	app := cli.NewApp(cfg, logger, client, repo, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
