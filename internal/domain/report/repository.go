package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the aggregation queries the dashboard needs. All
// aggregates exclude template rows (is_recurring = true), which are
// definitions rather than spending.
type Repository interface {
	CategoryTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error)
	MethodTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error)
	ExpenseCount(ctx context.Context, userID string, from, to time.Time) (int, error)
}
