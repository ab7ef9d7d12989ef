// Package services is the aggregation layer: it turns the API's
// kind-separated, id-referencing raw records into a single display-ready
// collection and recomputes the derived figures the API does not provide
// in the needed shape.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"kharcha/internal/api"
	"kharcha/internal/core"
)

// UncategorizedLabel is used when an expense references a category id that
// no longer exists, e.g. the category was deleted after the expense was
// created.
const UncategorizedLabel = "Uncategorized"

// TransactionService merges the expense and income collections into the
// normalized transaction list.
type TransactionService struct {
	client *api.Client
	mirror TransactionMirror
}

func NewTransactionService(client *api.Client, mirror TransactionMirror) *TransactionService {
	return &TransactionService{client: client, mirror: mirror}
}

// List fetches expenses, incomes, and categories concurrently (the three
// requests are independent, so they run under one errgroup barrier), then
// normalizes and merges: expense amounts are negated and their category id
// resolved through a lookup built once per call; income categories are the
// capitalized literal string. The result is sorted by date descending;
// same-day ties keep expenses before incomes because expenses are
// concatenated first and the sort is stable.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	var (
		expenses   []api.ExpenseRecord
		incomes    []api.IncomeRecord
		categories []api.CategoryRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.client.ListExpenses(gctx, api.ExpenseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.client.ListIncomes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.client.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	lookup := make(map[int64]string, len(categories))
	for _, c := range categories {
		lookup[c.ID] = c.Name
	}

	out := make([]core.Transaction, 0, len(expenses)+len(incomes))
	for _, e := range expenses {
		name, ok := lookup[e.Category]
		if !ok {
			name = UncategorizedLabel
		}
		date, err := core.ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		out = append(out, core.Transaction{
			ID:          core.NormalizedID(core.KindExpense, e.ID),
			OriginalID:  e.ID,
			Kind:        core.KindExpense,
			Date:        date,
			Description: e.Title,
			Category:    name,
			Amount:      e.Amount.Abs().Negate(),
			Icon:        core.IconFor(name),
		})
	}
	for _, in := range incomes {
		name := core.Capitalize(in.Category)
		date, err := core.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("income %d: %w", in.ID, err)
		}
		out = append(out, core.Transaction{
			ID:          core.NormalizedID(core.KindIncome, in.ID),
			OriginalID:  in.ID,
			Kind:        core.KindIncome,
			Date:        date,
			Description: in.Title,
			Category:    name,
			Amount:      in.Amount.Abs(),
			Icon:        core.IconFor(name),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	s.updateMirror(ctx, out, categories)
	return out, nil
}

// updateMirror refreshes the offline cache. Failures are logged, never
// surfaced: the mirror is a convenience, not part of the fetch contract.
func (s *TransactionService) updateMirror(ctx context.Context, txs []core.Transaction, cats []api.CategoryRecord) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.ReplaceTransactions(ctx, txs); err != nil {
		slog.WarnContext(ctx, "Failed to refresh transaction mirror", "error", err)
		return
	}
	mapped := make([]core.Category, 0, len(cats))
	for _, c := range cats {
		mapped = append(mapped, core.Category{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon, IsMine: c.IsMine})
	}
	if err := s.mirror.ReplaceCategories(ctx, mapped); err != nil {
		slog.WarnContext(ctx, "Failed to refresh category mirror", "error", err)
	}
}

// CreateInput carries the form fields for a new transaction. Amount is the
// unsigned magnitude as the user typed it; the sign is derived from Kind
// at display time, never sent to the server.
type CreateInput struct {
	Kind          core.Kind
	Title         string
	Amount        core.Money
	Date          string // YYYY-MM-DD
	Category      string // numeric id for expenses, choice token for incomes
	CategoryID    int64
	PaymentMethod string
	Notes         string
}

func (in CreateInput) validate() error {
	if err := in.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.Title) == "" {
		return core.ErrEmptyTitle
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if _, err := core.ParseDate(in.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", in.Date, err)
	}
	switch in.Kind {
	case core.KindExpense:
		if in.CategoryID <= 0 {
			return core.ErrEmptyCategory
		}
	case core.KindIncome:
		if strings.TrimSpace(in.Category) == "" {
			return core.ErrEmptyCategory
		}
	}
	return nil
}

// Create routes to the kind-specific endpoint. Income categories are
// lower-cased on the wire; the backend's income-category field is a
// constrained choice set of lowercase tokens.
func (s *TransactionService) Create(ctx context.Context, in CreateInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	switch in.Kind {
	case core.KindIncome:
		rec, err := s.client.CreateIncome(ctx, api.CreateIncomeRequest{
			Title:    strings.TrimSpace(in.Title),
			Amount:   in.Amount.Abs(),
			Date:     in.Date,
			Category: strings.ToLower(strings.TrimSpace(in.Category)),
		})
		if err != nil {
			return "", err
		}
		return core.NormalizedID(core.KindIncome, rec.ID), nil
	default:
		rec, err := s.client.CreateExpense(ctx, api.CreateExpenseRequest{
			Title:         strings.TrimSpace(in.Title),
			Amount:        in.Amount.Abs(),
			Date:          in.Date,
			Category:      in.CategoryID,
			PaymentMethod: in.PaymentMethod,
			Notes:         in.Notes,
		})
		if err != nil {
			return "", err
		}
		return core.NormalizedID(core.KindExpense, rec.ID), nil
	}
}

// Delete hits the kind-specific endpoint with the unprefixed backend id.
func (s *TransactionService) Delete(ctx context.Context, kind core.Kind, originalID int64) error {
	switch kind {
	case core.KindExpense:
		return s.client.DeleteExpense(ctx, originalID)
	case core.KindIncome:
		return s.client.DeleteIncome(ctx, originalID)
	}
	return fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
}

// MonthStats are the per-month totals shown above the transaction list.
type MonthStats struct {
	Income   core.Money
	Expenses core.Money // unsigned magnitude
	Balance  core.Money
}

// StatsFor computes income/expense/balance totals for the transactions
// falling in the given month (YYYY-MM).
func StatsFor(txs []core.Transaction, month string) MonthStats {
	var st MonthStats
	for _, tx := range txs {
		if tx.Date.Format("2006-01") != month {
			continue
		}
		switch tx.Kind {
		case core.KindIncome:
			st.Income = st.Income.Add(tx.Amount)
		case core.KindExpense:
			st.Expenses = st.Expenses.Add(tx.Amount.Abs())
		}
	}
	st.Balance = st.Income.Add(st.Expenses.Negate())
	return st
}
