package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"text/tabwriter"

	"kharcha/internal/api"
)

func (a *App) cmdAdmin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha admin <users|toggle|rm|stats|expenses> [arguments]")
	}
	if err := a.requireAuth(); err != nil {
		return err
	}
	switch args[0] {
	case "users":
		return a.cmdAdminUsers(ctx)
	case "toggle":
		return a.cmdAdminToggle(ctx, args[1:])
	case "rm":
		return a.cmdAdminRemove(ctx, args[1:])
	case "stats":
		return a.cmdAdminStats(ctx)
	case "expenses":
		return a.cmdAdminExpenses(ctx, args[1:])
	default:
		return fmt.Errorf("unknown admin subcommand %q", args[0])
	}
}

func (a *App) cmdAdminUsers(ctx context.Context) error {
	users, err := a.Admin.Users(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range users {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, active)
	}
	return w.Flush()
}

func (a *App) cmdAdminToggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kharcha admin toggle <user-id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	if err := a.Admin.ToggleActive(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Toggled user %d\n", id)
	return nil
}

func (a *App) cmdAdminRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kharcha admin rm <user-id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q", args[0])
	}
	if err := a.Admin.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted user %d\n", id)
	return nil
}

func (a *App) cmdAdminStats(ctx context.Context) error {
	stats, err := a.Admin.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "users: %d\n", stats.TotalUsers)
	fmt.Fprintf(a.Out, "expenses: %s\n", stats.TotalExpenses.Format(a.Config.CurrencySymbol))
	return nil
}

func (a *App) cmdAdminExpenses(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin expenses", flag.ContinueOnError)
	user := fs.String("user", "", "filter by user id")
	date := fs.String("date", "", "filter by date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := a.Admin.AllExpenses(ctx, api.ExpenseFilter{User: *user, Date: *date})
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tAMOUNT")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Date, r.Title, r.Amount.Format(a.Config.CurrencySymbol))
	}
	return w.Flush()
}
