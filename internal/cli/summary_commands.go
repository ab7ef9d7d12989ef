package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/services"
)

func (a *App) cmdSummary(ctx context.Context, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	year := fs.Int("year", now.Year(), "year")
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	s, err := a.Summaries.Monthly(ctx, *year, *month)
	if err != nil {
		return err
	}
	if s == nil {
		fmt.Fprintf(a.Out, "No data for %04d-%02d\n", *year, *month)
		return nil
	}

	sym := a.Config.CurrencySymbol
	fmt.Fprintf(a.Out, "Summary for %04d-%02d\n", *year, *month)
	fmt.Fprintf(a.Out, "  budget:     %s\n", s.MonthlyBudget.Format(sym))
	fmt.Fprintf(a.Out, "  spent:      %s (%.1f%% of budget)\n", s.TotalSpent.Format(sym), s.PercentageUsed)
	fmt.Fprintf(a.Out, "  balance:    %s (%s)\n", s.Balance.Format(sym), s.ProfitLoss)
	if s.BiggestExpense != nil {
		fmt.Fprintf(a.Out, "  biggest:    %s (%s, %s)\n",
			s.BiggestExpense.Title, s.BiggestExpense.Category, s.BiggestExpense.Amount.Format(sym))
	}

	if len(s.CategoryBreakdown) > 0 {
		fmt.Fprintln(a.Out, "  by category:")
		pct := services.BreakdownPercentages(s.CategoryBreakdown, s.TotalSpent)
		names := make([]string, 0, len(s.CategoryBreakdown))
		for name := range s.CategoryBreakdown {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return s.CategoryBreakdown[names[i]].Cents > s.CategoryBreakdown[names[j]].Cents
		})
		for _, name := range names {
			fmt.Fprintf(a.Out, "    %-20s %12s  %5.1f%%\n",
				name, s.CategoryBreakdown[name].Format(sym), pct[name])
		}
	}
	return nil
}

func (a *App) cmdBudget(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha budget <set|list> [flags]")
	}
	switch args[0] {
	case "set":
		return a.cmdBudgetSet(ctx, args[1:])
	case "list":
		return a.cmdBudgetList(ctx)
	default:
		return fmt.Errorf("unknown budget subcommand %q", args[0])
	}
}

func (a *App) cmdBudgetSet(ctx context.Context, args []string) error {
	now := time.Now()
	fs := flag.NewFlagSet("budget set", flag.ContinueOnError)
	year := fs.Int("year", now.Year(), "year")
	month := fs.Int("month", int(now.Month()), "month (1-12)")
	amount := fs.String("amount", "", "budget amount, e.g. 50000.00")
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
	rec, err := a.Budgets.Create(ctx, *month, *year, core.Money{Cents: cents})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Budget set: %s %d = %s\n", rec.MonthName, rec.Year, rec.Amount.Format(a.Config.CurrencySymbol))
	return nil
}

func (a *App) cmdBudgetList(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	budgets, err := a.Budgets.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range budgets {
		fmt.Fprintf(a.Out, "%-10s %d  %s\n", b.MonthName, b.Year, b.Amount.Format(a.Config.CurrencySymbol))
	}
	return nil
}
