package core

// MonthlySummary is computed server-side and consumed read-only. It is
// refetched per month selection, never mutated by the client.
type MonthlySummary struct {
	MonthlyBudget     Money            `json:"monthly_budget"`
	TotalSpent        Money            `json:"total_spent"`
	Balance           Money            `json:"balance"`
	ProfitLoss        string           `json:"profit_loss"`
	PercentageUsed    float64          `json:"percentage_used"`
	CategoryBreakdown map[string]Money `json:"category_breakdown"`
	DailyExpenses     []DailyExpense   `json:"daily_expenses"`
	BiggestExpense    *BiggestExpense  `json:"biggest_expense"`
}

// DailyExpense is one point of the daily spending series.
type DailyExpense struct {
	Date   string `json:"date"`
	Amount Money  `json:"amount"`
}

// BiggestExpense is the single largest expense of the month.
type BiggestExpense struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
	Date     string `json:"date"`
}

// AdminStats is the aggregate report behind the admin dashboard.
type AdminStats struct {
	TotalUsers    int   `json:"total_users"`
	TotalExpenses Money `json:"total_expenses"`
}
