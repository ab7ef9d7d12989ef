package services

import (
	"context"
	"time"

	"kharcha/internal/api"
	"kharcha/internal/core"
)

// BudgetService creates and reads monthly budgets. Budgets are write-once
// from the client's point of view; there is no edit path.
type BudgetService struct {
	client *api.Client
}

func NewBudgetService(client *api.Client) *BudgetService {
	return &BudgetService{client: client}
}

// Create validates locally and derives the month name from the numeric
// month before submitting.
func (s *BudgetService) Create(ctx context.Context, month, year int, amount core.Money) (api.BudgetRecord, error) {
	b := core.Budget{
		Month:  month,
		Year:   year,
		Amount: amount,
	}
	if err := b.Validate(); err != nil {
		return api.BudgetRecord{}, err
	}
	b.MonthName = time.Month(month).String()
	return s.client.CreateBudget(ctx, b)
}

func (s *BudgetService) List(ctx context.Context) ([]api.BudgetRecord, error) {
	return s.client.ListBudgets(ctx)
}

func (s *BudgetService) Get(ctx context.Context, id int64) (api.BudgetRecord, error) {
	return s.client.GetBudget(ctx, id)
}
