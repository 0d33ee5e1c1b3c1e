package expense

import (
	"context"
	"errors"
	"fmt"
)

// Service contains the business logic for expense operations
type Service struct {
	repo Repository
}

// NewService creates a new expense service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateExpense creates a new expense with business validation. For a
// recurring template the recurrence bookkeeping is anchored to the expense
// date: last_occurred starts at the date itself and recurring_next_date is
// precomputed so the UI can show the upcoming occurrence immediately.
func (s *Service) CreateExpense(ctx context.Context, params CreateParams) (*Expense, error) {
	params.Date = DateOnly(params.Date)

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if params.IsRecurring {
		anchor := params.Date
		if params.RecurringStartDate == nil {
			params.RecurringStartDate = &anchor
		}
		if params.LastOccurred == nil {
			params.LastOccurred = &anchor
		}
		next := NextOccurrence(*params.LastOccurred, params.Frequency)
		params.RecurringNextDate = &next
		if params.RecurringEndDate != nil {
			end := DateOnly(*params.RecurringEndDate)
			if end.Before(anchor) {
				return nil, fmt.Errorf("%w: recurring end date must not precede the start date", ErrInvalidInput)
			}
			params.RecurringEndDate = &end
		}
	}

	return s.repo.Create(ctx, params)
}

// GetExpense retrieves an expense by ID and verifies user ownership
func (s *Service) GetExpense(ctx context.Context, id, userID string) (*Expense, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}
	if exp.UserID != userID {
		return nil, ErrForbidden
	}
	return exp, nil
}

// ListExpenses retrieves a page of expenses for a user, newest first.
func (s *Service) ListExpenses(ctx context.Context, userID string, limit, offset int) ([]*Expense, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// UpdateExpense updates an expense after verifying ownership
func (s *Service) UpdateExpense(ctx context.Context, id, userID string, params UpdateParams) (*Expense, error) {
	if _, err := s.GetExpense(ctx, id, userID); err != nil {
		return nil, err
	}
	if params.Amount != nil && !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if params.Frequency != nil && !IsValidFrequency(*params.Frequency) {
		return nil, fmt.Errorf("%w: invalid frequency", ErrInvalidInput)
	}
	if params.Date != nil {
		d := DateOnly(*params.Date)
		params.Date = &d
	}
	if params.RecurringEndDate != nil {
		d := DateOnly(*params.RecurringEndDate)
		params.RecurringEndDate = &d
	}
	return s.repo.Update(ctx, id, params)
}

// DeleteExpense deletes an expense after verifying ownership
func (s *Service) DeleteExpense(ctx context.Context, id, userID string) error {
	if _, err := s.GetExpense(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
