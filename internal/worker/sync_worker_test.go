package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/export"
)

// fakeStore is an in-memory PendingStore.
type fakeStore struct {
	mu      sync.Mutex
	pending []core.Transaction
	synced  map[string]bool
	failGet error
}

func newFakeStore(txs ...core.Transaction) *fakeStore {
	return &fakeStore{pending: txs, synced: make(map[string]bool)}
}

func (s *fakeStore) PendingSync(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	var out []core.Transaction
	for _, t := range s.pending {
		if s.synced[t.ID] {
			continue
		}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) MarkSynced(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.synced[id] = true
	}
	return nil
}

func sampleTx(id string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Kind:     core.KindExpense,
		Date:     time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		Category: "Shopping",
		Amount:   core.Money{Cents: -100},
	}
}

func TestProcessOnceExportsAndMarks(t *testing.T) {
	store := newFakeStore(sampleTx("expense-1"), sampleTx("expense-2"))
	sink := export.NewMemoryAppender()
	w := NewSyncWorker(store, sink, Config{BatchSize: 10})

	n, err := w.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("ProcessOnce: %v", err)
	}
	if n != 2 {
		t.Fatalf("exported %d, want 2", n)
	}
	if len(sink.Rows()) != 2 {
		t.Fatalf("sink rows = %d", len(sink.Rows()))
	}

	// second cycle finds nothing
	n, err = w.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("second ProcessOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("re-exported %d already-synced rows", n)
	}
}

func TestFailedAppendKeepsRowsPending(t *testing.T) {
	store := newFakeStore(sampleTx("expense-1"))
	sink := export.NewMemoryAppender()
	sink.FailWith(errors.New("quota exceeded"))
	w := NewSyncWorker(store, sink, Config{BatchSize: 10})

	if _, err := w.ProcessOnce(context.Background()); err == nil {
		t.Fatal("expected append failure to propagate")
	}

	// after the sink recovers the same row is retried
	sink.FailWith(nil)
	n, err := w.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if n != 1 {
		t.Fatalf("retried %d rows, want 1", n)
	}
}

func TestProcessOnceHonorsBatchSize(t *testing.T) {
	store := newFakeStore(sampleTx("expense-1"), sampleTx("expense-2"), sampleTx("expense-3"))
	sink := export.NewMemoryAppender()
	w := NewSyncWorker(store, sink, Config{BatchSize: 2})

	n, err := w.ProcessOnce(context.Background())
	if err != nil {
		t.Fatalf("ProcessOnce: %v", err)
	}
	if n != 2 {
		t.Fatalf("batch = %d, want 2", n)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	store := newFakeStore(sampleTx("expense-1"))
	sink := export.NewMemoryAppender()
	w := NewSyncWorker(store, sink, Config{PollInterval: 10 * time.Millisecond, BatchSize: 10})

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Start(ctx); err == nil {
		t.Fatal("double Start must fail")
	}
	if !w.IsRunning() {
		t.Fatal("worker should report running")
	}

	// give the startup drain a moment
	deadline := time.Now().Add(time.Second)
	for len(sink.Rows()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if len(sink.Rows()) == 0 {
		t.Fatal("startup drain never ran")
	}

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if w.IsRunning() {
		t.Fatal("worker should report stopped")
	}
	// Stop on a stopped worker is a no-op
	if err := w.Stop(stopCtx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
