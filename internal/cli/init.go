// Package cli wires the command-line interface: shared bootstrap for the
// two binaries plus the subcommand implementations.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kharcha/internal/api"
	"kharcha/internal/config"
	"kharcha/internal/log"
	"kharcha/internal/storage"
)

// SetupLogger initializes structured logging for a binary and sets the
// default logger. Logs go to stderr so command output stays clean.
func SetupLogger(level slog.Level, component string) *slog.Logger {
	logger := log.New(log.Config{Level: level, Component: component})
	log.SetDefault(logger)
	return logger.Logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes the local mirror at the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *slog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// NewAPIClient builds the authorized client from the loaded config.
// Exits the process on failure; a broken session file is not recoverable
// without user action anyway.
func NewAPIClient(logger *slog.Logger, cfg *config.Config) *api.Client {
	store, err := api.NewSessionStore(cfg.SessionPath)
	if err != nil {
		logger.Error("Failed to load session", "error", err, "path", cfg.SessionPath)
		os.Exit(1)
	}
	client, err := api.New(api.Config{
		AccountsBaseURL: cfg.AccountsBaseURL,
		ExpensesBaseURL: cfg.ExpensesBaseURL,
		Store:           store,
		Timeout:         cfg.HTTPTimeout,
	})
	if err != nil {
		logger.Error("Failed to build API client", "error", err)
		os.Exit(1)
	}
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		default:
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
