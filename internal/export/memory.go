package export

import (
	"context"
	"sync"

	"kharcha/internal/core"
)

// MemoryAppender collects appended transactions in memory. Used by the
// sync worker tests and as a no-network fallback.
type MemoryAppender struct {
	mu   sync.Mutex
	rows []core.Transaction
	fail error
}

var _ TransactionAppender = (*MemoryAppender)(nil)

func NewMemoryAppender() *MemoryAppender {
	return &MemoryAppender{}
}

// FailWith makes every subsequent append return err. A nil err restores
// normal behavior.
func (m *MemoryAppender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemoryAppender) AppendTransactions(_ context.Context, txs []core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.rows = append(m.rows, txs...)
	return nil
}

// Rows returns a copy of everything appended so far.
func (m *MemoryAppender) Rows() []core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.rows...)
}
