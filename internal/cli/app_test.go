package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kharcha/internal/api"
	"kharcha/internal/config"
	"kharcha/internal/core"
	"kharcha/internal/storage"
)

func newTestApp(t *testing.T, handler http.Handler) (*App, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	store, err := api.NewSessionStore(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	if err := store.Save(api.Session{AccessToken: "token", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	client, err := api.New(api.Config{AccountsBaseURL: srv.URL, ExpensesBaseURL: srv.URL, Store: store})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "kharcha.db"))
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := &config.Config{
		AccountsBaseURL: srv.URL,
		ExpensesBaseURL: srv.URL,
		CurrencySymbol:  "₹",
		HTTPTimeout:     5 * time.Second,
	}
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApp(cfg, logger, client, repo, &out), &out
}

func TestRunUnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, http.NewServeMux())
	if err := app.Run(context.Background(), []string{"bogus"}); err == nil {
		t.Fatal("unknown command must error")
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	app, out := newTestApp(t, http.NewServeMux())
	if err := app.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("usage not printed: %q", out.String())
	}
}

func TestTxListRefreshesMirrorAndPrintsTotals(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/expenses/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"title":"Shoes","amount":"300.00","date":"2025-02-05","category":7}]`)
	})
	mux.HandleFunc("/incomes/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"title":"Feb salary","amount":"40000.00","date":"2025-02-02","category":"salary"}]`)
	})
	mux.HandleFunc("/categories/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":7,"name":"Shopping"}]`)
	})
	app, out := newTestApp(t, mux)

	err := app.Run(context.Background(), []string{"tx", "list", "-month", "2025-02"})
	if err != nil {
		t.Fatalf("tx list: %v", err)
	}
	got := out.String()
	for _, want := range []string{"expense-1", "income-1", "-₹300.00", "₹40000.00", "balance ₹39700.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// the mirror picked up the fetched rows for offline export
	mirrored, err := app.Repo.ListTransactions(context.Background(), "")
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if len(mirrored) != 2 {
		t.Fatalf("mirror holds %d rows, want 2", len(mirrored))
	}
}

func TestExportWritesCSVFromMirror(t *testing.T) {
	app, out := newTestApp(t, http.NewServeMux())

	// seed the mirror directly; export must work offline
	txs := sampleTransactions()
	if err := app.Repo.ReplaceTransactions(context.Background(), txs); err != nil {
		t.Fatalf("seed mirror: %v", err)
	}

	if err := app.Run(context.Background(), []string{"export"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "id,date,kind,description,category,amount") {
		t.Fatalf("missing csv header:\n%s", got)
	}
	if !strings.Contains(got, "expense-1,2025-02-05,expense,Shoes,Shopping,-300.00") {
		t.Fatalf("missing csv row:\n%s", got)
	}
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{
			ID:          "expense-1",
			OriginalID:  1,
			Kind:        core.KindExpense,
			Date:        time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
			Description: "Shoes",
			Category:    "Shopping",
			Amount:      core.Money{Cents: -30000},
			Icon:        "🛍️",
		},
		{
			ID:          "income-2",
			OriginalID:  2,
			Kind:        core.KindIncome,
			Date:        time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
			Description: "Feb salary",
			Category:    "Salary",
			Amount:      core.Money{Cents: 4000000},
			Icon:        "💰",
		},
	}
}

func TestTxRemoveRejectsMalformedID(t *testing.T) {
	app, _ := newTestApp(t, http.NewServeMux())
	if err := app.Run(context.Background(), []string{"tx", "rm", "banana"}); err == nil {
		t.Fatal("malformed id must error")
	}
}
