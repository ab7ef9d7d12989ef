package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"kharcha/internal/core"
)

// Raw record shapes as the backend serves them. Normalization into
// core.Transaction happens in the services layer, not here.
type (
	ExpenseRecord struct {
		ID       int64      `json:"id"`
		Title    string     `json:"title"`
		Amount   core.Money `json:"amount"`
		Date     string     `json:"date"`
		Category int64      `json:"category"`
	}

	IncomeRecord struct {
		ID       int64      `json:"id"`
		Title    string     `json:"title"`
		Amount   core.Money `json:"amount"`
		Date     string     `json:"date"`
		Category string     `json:"category"`
	}

	CategoryRecord struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Color  string `json:"color"`
		Icon   string `json:"icon"`
		IsMine bool   `json:"is_mine"`
	}

	UserRecord struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		IsActive bool   `json:"is_active"`
	}

	BudgetRecord struct {
		ID        int64      `json:"id"`
		MonthName string     `json:"month_name"`
		Month     int        `json:"month"`
		Year      int        `json:"year"`
		Amount    core.Money `json:"amount"`
	}

	// CreateExpenseRequest sends the amount as an absolute decimal
	// string; the backend stores unsigned magnitudes.
	CreateExpenseRequest struct {
		Title         string     `json:"title"`
		Amount        core.Money `json:"amount"`
		Date          string     `json:"date"`
		Category      int64      `json:"category"`
		PaymentMethod string     `json:"payment_method,omitempty"`
		Notes         string     `json:"notes,omitempty"`
	}

	// CreateIncomeRequest carries the income category as a lowercase
	// token; the backend's income-category field is a constrained choice
	// set. Lower-casing is the caller's job (see services).
	CreateIncomeRequest struct {
		Title    string     `json:"title"`
		Amount   core.Money `json:"amount"`
		Date     string     `json:"date"`
		Category string     `json:"category"`
	}

	// ExpenseFilter narrows the admin expense listing. Zero values mean
	// no filtering.
	ExpenseFilter struct {
		User string
		Date string
	}
)

func (c *Client) ListCategories(ctx context.Context) ([]CategoryRecord, error) {
	data, err := c.getRaw(ctx, c.expenses("categories/"))
	if err != nil {
		return nil, err
	}
	return decodeList[CategoryRecord](data)
}

func (c *Client) CreateCategory(ctx context.Context, name string) (CategoryRecord, error) {
	var out CategoryRecord
	payload := map[string]string{"name": name}
	if err := c.do(ctx, c.httpc, http.MethodPost, c.expenses("categories/"), payload, &out); err != nil {
		return CategoryRecord{}, fmt.Errorf("create category: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	url := c.expenses(fmt.Sprintf("categories/%d/", id))
	if err := c.do(ctx, c.httpc, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]ExpenseRecord, error) {
	path := "expenses/"
	q := url.Values{}
	if filter.User != "" {
		q.Set("user", filter.User)
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	data, err := c.getRaw(ctx, c.expenses(path))
	if err != nil {
		return nil, err
	}
	return decodeList[ExpenseRecord](data)
}

func (c *Client) CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseRecord, error) {
	var out ExpenseRecord
	if err := c.do(ctx, c.httpc, http.MethodPost, c.expenses("expenses/"), req, &out); err != nil {
		return ExpenseRecord{}, fmt.Errorf("create expense: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	url := c.expenses(fmt.Sprintf("expenses/%d/", id))
	if err := c.do(ctx, c.httpc, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListIncomes(ctx context.Context) ([]IncomeRecord, error) {
	data, err := c.getRaw(ctx, c.expenses("incomes/"))
	if err != nil {
		return nil, err
	}
	return decodeList[IncomeRecord](data)
}

func (c *Client) CreateIncome(ctx context.Context, req CreateIncomeRequest) (IncomeRecord, error) {
	var out IncomeRecord
	if err := c.do(ctx, c.httpc, http.MethodPost, c.expenses("incomes/"), req, &out); err != nil {
		return IncomeRecord{}, fmt.Errorf("create income: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteIncome(ctx context.Context, id int64) error {
	url := c.expenses(fmt.Sprintf("incomes/%d/", id))
	if err := c.do(ctx, c.httpc, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return nil
}

// MonthlySummary fetches the server-derived summary for a period. A 404
// comes back as *APIError; the services layer translates it to "no data".
func (c *Client) MonthlySummary(ctx context.Context, year, month int) (core.MonthlySummary, error) {
	var out core.MonthlySummary
	url := c.expenses(fmt.Sprintf("summary/%d/%d/", year, month))
	if err := c.do(ctx, c.httpc, http.MethodGet, url, nil, &out); err != nil {
		return core.MonthlySummary{}, err
	}
	return out, nil
}

func (c *Client) AdminStats(ctx context.Context) (core.AdminStats, error) {
	var out core.AdminStats
	if err := c.do(ctx, c.httpc, http.MethodGet, c.expenses("admin-stats/"), nil, &out); err != nil {
		return core.AdminStats{}, fmt.Errorf("fetch admin stats: %w", err)
	}
	return out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	data, err := c.getRaw(ctx, c.accounts("users/"))
	if err != nil {
		return nil, err
	}
	return decodeList[UserRecord](data)
}

func (c *Client) ToggleUserActive(ctx context.Context, id int64) error {
	url := c.accounts(fmt.Sprintf("users/%d/toggle-active/", id))
	if err := c.do(ctx, c.httpc, http.MethodPost, url, nil, nil); err != nil {
		return fmt.Errorf("toggle user %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	url := c.accounts(fmt.Sprintf("users/%d/", id))
	if err := c.do(ctx, c.httpc, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) (BudgetRecord, error) {
	payload := map[string]any{
		"month_name": b.MonthName,
		"month":      b.Month,
		"year":       b.Year,
		"amount":     b.Amount,
	}
	var out BudgetRecord
	if err := c.do(ctx, c.httpc, http.MethodPost, c.expenses("budgets/"), payload, &out); err != nil {
		return BudgetRecord{}, fmt.Errorf("create budget: %w", err)
	}
	return out, nil
}

func (c *Client) ListBudgets(ctx context.Context) ([]BudgetRecord, error) {
	data, err := c.getRaw(ctx, c.expenses("budgets/"))
	if err != nil {
		return nil, err
	}
	return decodeList[BudgetRecord](data)
}

func (c *Client) GetBudget(ctx context.Context, id int64) (BudgetRecord, error) {
	var out BudgetRecord
	url := c.expenses(fmt.Sprintf("budgets/%d/", id))
	if err := c.do(ctx, c.httpc, http.MethodGet, url, nil, &out); err != nil {
		return BudgetRecord{}, fmt.Errorf("fetch budget %d: %w", id, err)
	}
	return out, nil
}
