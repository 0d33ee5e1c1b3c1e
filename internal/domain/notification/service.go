package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// Service sends push notifications to a user's registered devices. It also
// implements the recurring processor's Notifier and the budget service's
// Alerter.
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new notification service
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// SendToUser sends a push notification to every active device of one user.
// Having no registered devices is not an error.
func (s *Service) SendToUser(ctx context.Context, userID, title, body string, data map[string]string) error {
	tokens, err := s.repo.ActiveTokensByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Printf("Notification skipped for user %s: no active devices", userID)
		return nil
	}
	return s.messenger.SendMulticast(ctx, tokens, title, body, data)
}

// RecurringPosted notifies a user that recurring expenses were materialized.
func (s *Service) RecurringPosted(ctx context.Context, userID string, inserted int) error {
	body := fmt.Sprintf("%d recurring expense(s) were added to your ledger.", inserted)
	return s.SendToUser(ctx, userID, "Recurring expenses posted", body, map[string]string{
		"type": "recurring_posted",
	})
}

// BudgetExceeded notifies a user that a budget was crossed. An empty
// category means the overall monthly budget.
func (s *Service) BudgetExceeded(ctx context.Context, userID, category string, budget, spent decimal.Decimal) error {
	title := "Monthly budget exceeded"
	if category != "" {
		title = fmt.Sprintf("Budget exceeded: %s", category)
	}
	body := fmt.Sprintf("Spent %s of %s.", spent.StringFixed(2), budget.StringFixed(2))
	return s.SendToUser(ctx, userID, title, body, map[string]string{
		"type":     "budget_exceeded",
		"category": category,
	})
}
