package report

import (
	"time"

	"github.com/shopspring/decimal"

	"budgetix/internal/domain/expense"
)

// CategoryTotal is one slice of the category breakdown chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// MethodTotal is one slice of the payment-method breakdown.
type MethodTotal struct {
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
}

// MonthlySummary is the dashboard payload for one user and calendar month.
type MonthlySummary struct {
	Month          string             `json:"month"` // YYYY-MM
	TotalSpent     decimal.Decimal    `json:"totalSpent"`
	ExpenseCount   int                `json:"expenseCount"`
	ByCategory     []CategoryTotal    `json:"byCategory"`
	ByMethod       []MethodTotal      `json:"byMethod"`
	RecentExpenses []*expense.Expense `json:"recentExpenses"`
	UpcomingDates  []UpcomingExpense  `json:"upcoming"`
}

// UpcomingExpense surfaces a template's cached next due date on the dashboard.
type UpcomingExpense struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	NextDate time.Time       `json:"nextDate"`
}
