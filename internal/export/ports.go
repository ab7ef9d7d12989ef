// Package export moves mirrored transactions out of the local store, to a
// CSV file or a Google spreadsheet.
package export

import (
	"context"

	"kharcha/internal/core"
)

// TransactionAppender receives batches of transactions. Implemented by the
// Sheets client and by the in-memory store used in tests.
type TransactionAppender interface {
	AppendTransactions(ctx context.Context, txs []core.Transaction) error
}
