package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrForbidden      = errors.New("access forbidden")
	ErrInvalidInput   = errors.New("invalid input")
)

// Budget is a monthly spending limit for one user, either overall
// (Category == "") or scoped to a single category.
type Budget struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Category  string          `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpsertParams contains parameters for creating or replacing a budget.
type UpsertParams struct {
	UserID   string
	Category string
	Amount   decimal.Decimal
}

// Validate validates the upsert parameters.
func (p UpsertParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if !p.Amount.IsPositive() {
		return errors.New("budget amount must be greater than zero")
	}
	return nil
}

// CategoryStatus compares one category's budget with actual spend for a month.
type CategoryStatus struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Spent    decimal.Decimal `json:"spent"`
	Over     bool            `json:"over"`
}

// MonthStatus is the budget-vs-actual report for one user and month.
type MonthStatus struct {
	Month       string           `json:"month"` // YYYY-MM
	TotalBudget decimal.Decimal  `json:"totalBudget"`
	TotalSpent  decimal.Decimal  `json:"totalSpent"`
	OverBudget  bool             `json:"overBudget"`
	Categories  []CategoryStatus `json:"categories"`
}
