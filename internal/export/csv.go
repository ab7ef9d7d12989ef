package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"kharcha/internal/core"
)

var csvHeader = []string{"id", "date", "kind", "description", "category", "amount"}

// WriteCSV renders transactions as CSV with a header row. Amounts use the
// plain signed decimal form, so expense rows come out negative.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.ID,
			t.Date.Format("2006-01-02"),
			string(t.Kind),
			t.Description,
			t.Category,
			t.Amount.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
