package budget

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for budget data access
type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) (*Budget, error)
	ListByUserID(ctx context.Context, userID string) ([]*Budget, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Budget, error)
}

// SpendReader supplies actual spend figures. Implemented by the postgres
// report repository over the expenses table.
type SpendReader interface {
	// CategoryTotals returns total non-template spend per category for a
	// user within [from, to).
	CategoryTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error)
}
