package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/services"
)

func (a *App) cmdTx(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha tx <list|add|rm> [flags]")
	}
	switch args[0] {
	case "list":
		return a.cmdTxList(ctx, args[1:])
	case "add":
		return a.cmdTxAdd(ctx, args[1:])
	case "rm":
		return a.cmdTxRemove(ctx, args[1:])
	default:
		return fmt.Errorf("unknown tx subcommand %q", args[0])
	}
}

func (a *App) cmdTxList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx list", flag.ContinueOnError)
	month := fs.String("month", "", "restrict totals to a month (YYYY-MM, default: current)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	txs, err := a.Transactions.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tDESCRIPTION\tAMOUNT")
	for _, t := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n",
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Icon, t.Category,
			t.Description,
			t.Amount.Format(a.Config.CurrencySymbol),
		)
	}
	w.Flush()

	m := *month
	if m == "" {
		m = time.Now().Format("2006-01")
	}
	st := services.StatsFor(txs, m)
	fmt.Fprintf(a.Out, "\n%s: income %s, expenses %s, balance %s\n",
		m,
		st.Income.Format(a.Config.CurrencySymbol),
		st.Expenses.Format(a.Config.CurrencySymbol),
		st.Balance.Format(a.Config.CurrencySymbol),
	)
	return nil
}

func (a *App) cmdTxAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx add", flag.ContinueOnError)
	kind := fs.String("kind", "expense", "expense or income")
	title := fs.String("title", "", "description")
	amount := fs.String("amount", "", "amount, e.g. 300.00")
	date := fs.String("date", time.Now().Format("2006-01-02"), "date (YYYY-MM-DD)")
	category := fs.String("category", "", "category name")
	payment := fs.String("payment", "", "payment method (expenses only)")
	notes := fs.String("notes", "", "free-form notes (expenses only)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	cents, err := core.ParseDecimalToCents(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", *amount, err)
	}

	in := services.CreateInput{
		Kind:          core.Kind(*kind),
		Title:         *title,
		Amount:        core.Money{Cents: cents},
		Date:          *date,
		PaymentMethod: *payment,
		Notes:         *notes,
	}
	switch in.Kind {
	case core.KindExpense:
		id, err := a.Categories.Resolve(ctx, *category)
		if err != nil {
			return err
		}
		in.CategoryID = id
	case core.KindIncome:
		in.Category = *category
	}

	id, err := a.Transactions.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Created %s\n", id)
	return nil
}

func (a *App) cmdTxRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha tx rm <id> [<id>...]")
	}
	if err := a.requireAuth(); err != nil {
		return err
	}
	for _, id := range args {
		kind, originalID, err := core.SplitNormalizedID(id)
		if err != nil {
			return err
		}
		if err := a.Transactions.Delete(ctx, kind, originalID); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		fmt.Fprintf(a.Out, "Deleted %s\n", id)
	}
	return nil
}
