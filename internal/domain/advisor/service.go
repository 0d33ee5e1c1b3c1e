package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetix/internal/domain/budget"
	"budgetix/internal/domain/report"
)

// Completer is the hosted LLM surface the advisor depends on. Implemented by
// the llm infrastructure client.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const systemPrompt = "You are a practical personal-finance assistant. " +
	"Give short, concrete budgeting suggestions based only on the numbers provided. " +
	"Do not invent figures. Answer in plain text, at most five suggestions."

// Service wraps the LLM in prompt templating: it renders the user's monthly
// numbers into a prompt and returns the model's free-text advice verbatim.
// The output is advisory text, not a structural contract.
type Service struct {
	reports *report.Service
	budgets *budget.Service
	llm     Completer
}

// NewService creates a new advisor service
func NewService(reports *report.Service, budgets *budget.Service, llm Completer) *Service {
	return &Service{reports: reports, budgets: budgets, llm: llm}
}

// Suggestions returns AI-generated budgeting advice for one user based on
// the current month's spending and budget status.
func (s *Service) Suggestions(ctx context.Context, userID string, now time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("valid user ID is required")
	}

	summary, err := s.reports.MonthlySummary(ctx, userID, now)
	if err != nil {
		return "", fmt.Errorf("failed to build monthly summary: %w", err)
	}
	status, err := s.budgets.Status(ctx, userID, now)
	if err != nil {
		return "", fmt.Errorf("failed to build budget status: %w", err)
	}

	prompt := buildPrompt(summary, status)

	advice, err := s.llm.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}
	return strings.TrimSpace(advice), nil
}

func buildPrompt(summary *report.MonthlySummary, status *budget.MonthStatus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Month: %s\n", summary.Month)
	fmt.Fprintf(&b, "Total spent: %s across %d expenses\n", summary.TotalSpent.StringFixed(2), summary.ExpenseCount)
	if status.TotalBudget.IsPositive() {
		fmt.Fprintf(&b, "Overall monthly budget: %s (over: %t)\n", status.TotalBudget.StringFixed(2), status.OverBudget)
	}

	if len(summary.ByCategory) > 0 {
		b.WriteString("Spending by category:\n")
		for _, c := range summary.ByCategory {
			fmt.Fprintf(&b, "- %s: %s\n", c.Category, c.Total.StringFixed(2))
		}
	}

	if len(status.Categories) > 0 {
		b.WriteString("Category budgets:\n")
		for _, c := range status.Categories {
			fmt.Fprintf(&b, "- %s: budget %s, spent %s (over: %t)\n",
				c.Category, c.Budget.StringFixed(2), c.Spent.StringFixed(2), c.Over)
		}
	}

	if len(summary.UpcomingDates) > 0 {
		b.WriteString("Upcoming recurring expenses:\n")
		for _, u := range summary.UpcomingDates {
			fmt.Fprintf(&b, "- %s: %s due %s\n", u.Category, u.Amount.StringFixed(2), u.NextDate.Format("2006-01-02"))
		}
	}

	b.WriteString("Suggest how this user can stay within budget next month.")
	return b.String()
}
