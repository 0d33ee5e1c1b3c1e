package expense

import (
	"context"
	"time"
)

// Repository defines the interface for expense data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Expense, error)
	GetByID(ctx context.Context, id string) (*Expense, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Expense, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Expense, error)
	Delete(ctx context.Context, id string) error

	// ListRecurringTemplates returns all rows with is_recurring = true.
	ListRecurringTemplates(ctx context.Context) ([]*Expense, error)
	// ListRecurringTemplatesByUser returns the recurring templates owned by one user.
	ListRecurringTemplatesByUser(ctx context.Context, userID string) ([]*Expense, error)
	// RecurringUserIDs returns the distinct owners of active templates.
	RecurringUserIDs(ctx context.Context) ([]string, error)
	// FindByOwnerCategoryDate performs the exact-match lookup used by the
	// duplicate-insert guard.
	FindByOwnerCategoryDate(ctx context.Context, userID, category string, date time.Time) ([]*Expense, error)
	// FindRecurringAfter returns rows for (userID, category) still flagged
	// recurring with a date strictly after the given boundary. Used by the
	// expired-recurrence cleanup pass.
	FindRecurringAfter(ctx context.Context, userID, category string, after time.Time) ([]*Expense, error)
	// UpdateRecurrence persists template bookkeeping fields.
	UpdateRecurrence(ctx context.Context, id string, params RecurrenceUpdate) error
}
