package expense

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the cadence of a recurring expense template.
type Frequency string

const (
	FrequencyDaily     Frequency = "Daily"
	FrequencyWeekly    Frequency = "Weekly"
	FrequencyMonthly   Frequency = "Monthly"
	FrequencyQuarterly Frequency = "Quarterly"
	FrequencySixMonths Frequency = "6 Months"
	FrequencyYearly    Frequency = "Yearly"
)

var frequencies = map[Frequency]struct{}{
	FrequencyDaily:     {},
	FrequencyWeekly:    {},
	FrequencyMonthly:   {},
	FrequencyQuarterly: {},
	FrequencySixMonths: {},
	FrequencyYearly:    {},
}

// IsValidFrequency checks if the provided frequency is one of the known cadences.
func IsValidFrequency(f Frequency) bool {
	_, ok := frequencies[f]
	return ok
}

// Domain errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	// ErrOwnerMissing is returned when a write fails because the owning user
	// no longer exists (foreign-key violation surfaced by the store).
	ErrOwnerMissing = errors.New("expense owner no longer exists")
)

// Expense represents a single expense row. A row with IsRecurring=true is a
// template that the recurring processor expands into concrete occurrence
// rows (IsRecurring=false) sharing its amount, category and description.
type Expense struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	Amount             decimal.Decimal `json:"amount"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	Date               time.Time       `json:"date"`
	PaymentMethod      string          `json:"paymentMethod"`
	Frequency          Frequency       `json:"frequency,omitempty"`
	IsRecurring        bool            `json:"isRecurring"`
	RecurringStartDate *time.Time      `json:"recurringStartDate,omitempty"`
	LastOccurred       *time.Time      `json:"lastOccurred,omitempty"`
	RecurringNextDate  *time.Time      `json:"recurringNextDate,omitempty"`
	RecurringEndDate   *time.Time      `json:"recurringEndDate,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CreateParams contains parameters for inserting a new expense row.
type CreateParams struct {
	UserID             string
	Amount             decimal.Decimal
	Category           string
	Description        string
	Date               time.Time
	PaymentMethod      string
	Frequency          Frequency
	IsRecurring        bool
	RecurringStartDate *time.Time
	LastOccurred       *time.Time
	RecurringNextDate  *time.Time
	RecurringEndDate   *time.Time
}

// Validate validates the create parameters.
func (p CreateParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if !p.Amount.IsPositive() {
		return errors.New("amount must be greater than zero")
	}
	if p.Category == "" {
		return errors.New("category is required")
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	if p.IsRecurring && !IsValidFrequency(p.Frequency) {
		return errors.New("recurring expense requires a valid frequency")
	}
	return nil
}

// UpdateParams contains parameters for updating an expense. Nil fields are
// left untouched.
type UpdateParams struct {
	Amount           *decimal.Decimal
	Category         *string
	Description      *string
	Date             *time.Time
	PaymentMethod    *string
	Frequency        *Frequency
	RecurringEndDate *time.Time
}

// RecurrenceUpdate carries the bookkeeping fields the recurring processor
// persists on a template row between catch-up iterations.
type RecurrenceUpdate struct {
	IsRecurring       *bool
	LastOccurred      *time.Time
	RecurringNextDate *time.Time
}
