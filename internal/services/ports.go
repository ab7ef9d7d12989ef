package services

import (
	"context"

	"kharcha/internal/core"
)

// TransactionMirror is the optional local cache the transaction service
// refreshes after a successful fetch. Implemented by storage.SQLiteRepository;
// a nil mirror disables mirroring.
type TransactionMirror interface {
	ReplaceTransactions(ctx context.Context, txs []core.Transaction) error
	ReplaceCategories(ctx context.Context, cats []core.Category) error
}
