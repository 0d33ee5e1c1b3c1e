package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"budgetix/internal/domain/expense"
)

const recentExpenseLimit = 10

// Service assembles the dashboard summary. Straight-line data transforms
// over the report and expense repositories.
type Service struct {
	repo     Repository
	expenses expense.Repository
}

// NewService creates a new report service
func NewService(repo Repository, expenses expense.Repository) *Service {
	return &Service{repo: repo, expenses: expenses}
}

// MonthlySummary builds the dashboard payload for one user and the calendar
// month containing the given time.
func (s *Service) MonthlySummary(ctx context.Context, userID string, month time.Time) (*MonthlySummary, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	summary := &MonthlySummary{Month: from.Format("2006-01")}

	byCategory, err := s.repo.CategoryTotals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	for category, total := range byCategory {
		summary.TotalSpent = summary.TotalSpent.Add(total)
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Total.GreaterThan(summary.ByCategory[j].Total)
	})

	byMethod, err := s.repo.MethodTotals(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payment methods: %w", err)
	}
	for method, total := range byMethod {
		summary.ByMethod = append(summary.ByMethod, MethodTotal{PaymentMethod: method, Total: total})
	}
	sort.Slice(summary.ByMethod, func(i, j int) bool {
		return summary.ByMethod[i].Total.GreaterThan(summary.ByMethod[j].Total)
	})

	count, err := s.repo.ExpenseCount(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}
	summary.ExpenseCount = count

	recent, err := s.expenses.ListByUserID(ctx, userID, recentExpenseLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent expenses: %w", err)
	}
	summary.RecentExpenses = recent

	templates, err := s.expenses.ListRecurringTemplatesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	for _, tpl := range templates {
		if tpl.RecurringNextDate == nil {
			continue
		}
		summary.UpcomingDates = append(summary.UpcomingDates, UpcomingExpense{
			Category: tpl.Category,
			Amount:   tpl.Amount,
			NextDate: *tpl.RecurringNextDate,
		})
	}
	sort.Slice(summary.UpcomingDates, func(i, j int) bool {
		return summary.UpcomingDates[i].NextDate.Before(summary.UpcomingDates[j].NextDate)
	})

	return summary, nil
}
