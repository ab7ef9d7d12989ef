package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
)

func (a *App) cmdCat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha cat <list|add|rm> [arguments]")
	}
	switch args[0] {
	case "list":
		return a.cmdCatList(ctx)
	case "add":
		return a.cmdCatAdd(ctx, args[1:])
	case "rm":
		return a.cmdCatRemove(ctx, args[1:])
	default:
		return fmt.Errorf("unknown cat subcommand %q", args[0])
	}
}

func (a *App) cmdCatList(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	cats, err := a.Categories.List(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMINE")
	for _, c := range cats {
		mine := ""
		if c.IsMine {
			mine = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, mine)
	}
	return w.Flush()
}

func (a *App) cmdCatAdd(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: kharcha cat add <name>")
	}
	if err := a.requireAuth(); err != nil {
		return err
	}
	cat, err := a.Categories.Create(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Created category %d %q\n", cat.ID, cat.Name)
	return nil
}

func (a *App) cmdCatRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: kharcha cat rm <id> [<id>...]")
	}
	if err := a.requireAuth(); err != nil {
		return err
	}

	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id %q", raw)
		}
		ids = append(ids, id)
	}

	if len(ids) == 1 {
		if err := a.Categories.Delete(ctx, ids[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Deleted category %d\n", ids[0])
		return nil
	}
	if err := a.Categories.DeleteAll(ctx, ids); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Deleted %d categories\n", len(ids))
	return nil
}
