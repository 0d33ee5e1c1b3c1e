package budget

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Alerter is notified when a month's spend crosses a budget. Implementations
// send a push notification; a nil Alerter disables the feature.
type Alerter interface {
	BudgetExceeded(ctx context.Context, userID, category string, budget, spent decimal.Decimal) error
}

// Service contains the business logic for budget operations
type Service struct {
	repo    Repository
	spend   SpendReader
	alerter Alerter
}

// NewService creates a new budget service. alerter may be nil.
func NewService(repo Repository, spend SpendReader, alerter Alerter) *Service {
	return &Service{repo: repo, spend: spend, alerter: alerter}
}

// SetBudget creates or replaces a budget for a user and category
func (s *Service) SetBudget(ctx context.Context, params UpsertParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.Upsert(ctx, params)
}

// ListBudgets returns all budgets configured by one user
func (s *Service) ListBudgets(ctx context.Context, userID string) ([]*Budget, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}

// DeleteBudget deletes a budget after verifying ownership
func (s *Service) DeleteBudget(ctx context.Context, id, userID string) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBudgetNotFound
	}
	if b.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Status reports budget vs. actual spend for one user and month. month is
// any time within the calendar month of interest.
func (s *Service) Status(ctx context.Context, userID string, month time.Time) (*MonthStatus, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	budgets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	totals, err := s.spend.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read spend totals: %w", err)
	}

	status := &MonthStatus{Month: from.Format("2006-01")}
	for _, total := range totals {
		status.TotalSpent = status.TotalSpent.Add(total)
	}

	for _, b := range budgets {
		if b.Category == "" {
			status.TotalBudget = b.Amount
			continue
		}
		spent := totals[b.Category]
		status.Categories = append(status.Categories, CategoryStatus{
			Category: b.Category,
			Budget:   b.Amount,
			Spent:    spent,
			Over:     spent.GreaterThan(b.Amount),
		})
	}
	sort.Slice(status.Categories, func(i, j int) bool {
		return status.Categories[i].Category < status.Categories[j].Category
	})

	status.OverBudget = status.TotalBudget.IsPositive() && status.TotalSpent.GreaterThan(status.TotalBudget)

	return status, nil
}

// CheckAndAlert evaluates the current month's status and notifies the user
// about any budgets that have been exceeded. Alert failures are logged, not
// returned; the status itself is still reported.
func (s *Service) CheckAndAlert(ctx context.Context, userID string, now time.Time) (*MonthStatus, error) {
	status, err := s.Status(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if s.alerter == nil {
		return status, nil
	}

	if status.OverBudget {
		if err := s.alerter.BudgetExceeded(ctx, userID, "", status.TotalBudget, status.TotalSpent); err != nil {
			log.Printf("Budget: overall alert failed for user %s: %v", userID, err)
		}
	}
	for _, c := range status.Categories {
		if !c.Over {
			continue
		}
		if err := s.alerter.BudgetExceeded(ctx, userID, c.Category, c.Budget, c.Spent); err != nil {
			log.Printf("Budget: category alert failed for user %s (%s): %v", userID, c.Category, err)
		}
	}

	return status, nil
}
