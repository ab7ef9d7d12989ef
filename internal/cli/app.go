package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"kharcha/internal/api"
	"kharcha/internal/config"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

// App holds the wired services behind the subcommands. Out is the
// destination for command output; stderr carries logs.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Client *api.Client
	Repo   *storage.SQLiteRepository
	Out    io.Writer

	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Summaries    *services.SummaryService
	Budgets      *services.BudgetService
	Admin        *services.AdminService
}

// NewApp wires the service layer. repo may be nil, in which case the
// transaction mirror and export commands are disabled.
func NewApp(cfg *config.Config, logger *slog.Logger, client *api.Client, repo *storage.SQLiteRepository, out io.Writer) *App {
	var mirror services.TransactionMirror
	if repo != nil {
		mirror = repo
	}
	return &App{
		Config:       cfg,
		Logger:       logger,
		Client:       client,
		Repo:         repo,
		Out:          out,
		Transactions: services.NewTransactionService(client, mirror),
		Categories:   services.NewCategoryService(client),
		Summaries:    services.NewSummaryService(client),
		Budgets:      services.NewBudgetService(client),
		Admin:        services.NewAdminService(client),
	}
}

const usage = `kharcha - personal finance tracker

Usage:
  kharcha <command> [arguments]

Commands:
  login      log in and store the session
  logout     clear the stored session
  whoami     show the current session
  register   create a new account
  tx         list, add, or remove transactions
  cat        list, add, or remove categories
  summary    show the monthly summary
  budget     set or list monthly budgets
  admin      user management and statistics (admin only)
  export     write mirrored transactions to CSV

Run 'kharcha <command> -h' for command-specific flags.`

// Run dispatches a subcommand. Arguments exclude the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.Out, usage)
		return nil
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "whoami":
		return a.cmdWhoami(ctx)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "tx":
		return a.cmdTx(ctx, rest)
	case "cat":
		return a.cmdCat(ctx, rest)
	case "summary":
		return a.cmdSummary(ctx, rest)
	case "budget":
		return a.cmdBudget(ctx, rest)
	case "admin":
		return a.cmdAdmin(ctx, rest)
	case "export":
		return a.cmdExport(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprintln(a.Out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q (run 'kharcha help')", cmd)
	}
}

// requireAuth fails early with a friendly message instead of letting the
// first request bounce off a 401.
func (a *App) requireAuth() error {
	if !a.Client.IsAuthenticated() {
		return fmt.Errorf("not logged in (run 'kharcha login')")
	}
	return nil
}
