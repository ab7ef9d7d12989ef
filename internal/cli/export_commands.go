package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"kharcha/internal/export"
)

// cmdExport writes mirrored transactions as CSV. With -refresh the mirror
// is updated from the API first; otherwise the export is fully offline.
func (a *App) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	month := fs.String("month", "", "restrict to a month (YYYY-MM)")
	out := fs.String("o", "", "output file (default: stdout)")
	refresh := fs.Bool("refresh", false, "fetch from the API before exporting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.Repo == nil {
		return fmt.Errorf("local mirror is not configured")
	}

	if *refresh {
		if err := a.requireAuth(); err != nil {
			return err
		}
		if _, err := a.Transactions.List(ctx); err != nil {
			return fmt.Errorf("refresh mirror: %w", err)
		}
	}

	txs, err := a.Repo.ListTransactions(ctx, *month)
	if err != nil {
		return err
	}

	w := a.Out
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteCSV(w, txs); err != nil {
		return err
	}
	if *out != "" {
		fmt.Fprintf(a.Out, "Wrote %d transactions to %s\n", len(txs), *out)
	}
	return nil
}
