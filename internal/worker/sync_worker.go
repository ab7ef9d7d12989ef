// Package worker runs the background export loop that drains the local
// mirror's pending transactions into a sheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/export"
)

// PendingStore is the slice of the mirror the worker needs: unexported
// rows and the flag to set once they are out.
type PendingStore interface {
	PendingSync(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, ids []string) error
}

// Config holds the worker knobs.
type Config struct {
	// PollInterval is how often to check for pending rows (default: 30s)
	PollInterval time.Duration

	// BatchSize is the max number of rows exported per poll cycle (default: 50)
	BatchSize int
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		BatchSize:    50,
	}
}

// SyncWorker periodically exports pending mirrored transactions. Rows are
// marked synced only after a successful append, so a failed batch is
// retried on the next cycle.
type SyncWorker struct {
	store    PendingStore
	appender export.TransactionAppender
	config   Config

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewSyncWorker(store PendingStore, appender export.TransactionAppender, config Config) *SyncWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &SyncWorker{
		store:    store,
		appender: appender,
		config:   config,
	}
}

// Start begins the export loop. Returns an error if already running.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("sync worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	slog.InfoContext(ctx, "Sync worker started",
		"poll_interval", w.config.PollInterval,
		"batch_size", w.config.BatchSize)

	return nil
}

// Stop gracefully stops the worker and waits for the loop to exit.
func (w *SyncWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)

	select {
	case <-w.doneCh:
		slog.InfoContext(ctx, "Sync worker stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	return nil
}

// IsRunning reports whether the loop is active.
func (w *SyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SyncWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Drain immediately on startup to recover from downtime.
	w.processBatch(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

// ProcessOnce runs a single drain cycle outside the loop. Used by the CLI
// export command and by tests.
func (w *SyncWorker) ProcessOnce(ctx context.Context) (int, error) {
	return w.drain(ctx)
}

func (w *SyncWorker) processBatch(ctx context.Context) {
	n, err := w.drain(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Sync batch failed", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "Exported pending transactions", "count", n)
	}
}

func (w *SyncWorker) drain(ctx context.Context) (int, error) {
	pending, err := w.store.PendingSync(ctx, w.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	if err := w.appender.AppendTransactions(ctx, pending); err != nil {
		return 0, fmt.Errorf("append %d transactions: %w", len(pending), err)
	}

	ids := make([]string, len(pending))
	for i, t := range pending {
		ids[i] = t.ID
	}
	if err := w.store.MarkSynced(ctx, ids); err != nil {
		// The append succeeded; rows will be re-exported next cycle,
		// which the sheet tolerates better than losing them.
		return len(pending), fmt.Errorf("mark synced: %w", err)
	}
	return len(pending), nil
}
