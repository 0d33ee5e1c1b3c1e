package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	UpsertDeviceTokenFunc    func(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	ActiveTokensByUserIDFunc func(ctx context.Context, userID string) ([]string, error)
	DeactivateTokenFunc      func(ctx context.Context, token string) error
}

func (m *MockRepository) UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if m.UpsertDeviceTokenFunc != nil {
		return m.UpsertDeviceTokenFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) ActiveTokensByUserID(ctx context.Context, userID string) ([]string, error) {
	if m.ActiveTokensByUserIDFunc != nil {
		return m.ActiveTokensByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) DeactivateToken(ctx context.Context, token string) error {
	if m.DeactivateTokenFunc != nil {
		return m.DeactivateTokenFunc(ctx, token)
	}
	return nil
}

type mockMessenger struct {
	sent []string // titles, in order
}

func (m *mockMessenger) Send(ctx context.Context, token string, title, body string, data map[string]string) error {
	m.sent = append(m.sent, title)
	return nil
}

func (m *mockMessenger) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	m.sent = append(m.sent, title)
	return nil
}

func TestRegisterDevice_Validation(t *testing.T) {
	ctx := context.Background()
	service := NewService(&MockRepository{}, &mockMessenger{})

	tests := []struct {
		name   string
		params CreateDeviceTokenParams
	}{
		{"missing user", CreateDeviceTokenParams{Token: "tok", Platform: "web"}},
		{"missing token", CreateDeviceTokenParams{UserID: "user-1", Platform: "web"}},
		{"bad platform", CreateDeviceTokenParams{UserID: "user-1", Token: "tok", Platform: "blackberry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RegisterDevice(ctx, tt.params)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("RegisterDevice() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestRegisterDevice_Success(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		UpsertDeviceTokenFunc: func(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
			return &DeviceToken{ID: "dt-1", UserID: params.UserID, Token: params.Token, Platform: params.Platform, Active: true, CreatedAt: time.Now()}, nil
		},
	}
	service := NewService(repo, &mockMessenger{})

	token, err := service.RegisterDevice(ctx, CreateDeviceTokenParams{UserID: "user-1", Token: "tok", Platform: "android"})
	if err != nil {
		t.Fatalf("RegisterDevice() failed: %v", err)
	}
	if token.Token != "tok" || !token.Active {
		t.Errorf("token = %+v, want active tok", token)
	}
}

func TestSendToUser_NoDevicesIsNotAnError(t *testing.T) {
	ctx := context.Background()
	messenger := &mockMessenger{}
	service := NewService(&MockRepository{}, messenger)

	if err := service.SendToUser(ctx, "user-1", "Hello", "body", nil); err != nil {
		t.Errorf("SendToUser() with no devices failed: %v", err)
	}
	if len(messenger.sent) != 0 {
		t.Errorf("sent = %v, want nothing", messenger.sent)
	}
}

func TestRecurringPostedAndBudgetExceeded(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		ActiveTokensByUserIDFunc: func(ctx context.Context, userID string) ([]string, error) {
			return []string{"tok-1"}, nil
		},
	}
	messenger := &mockMessenger{}
	service := NewService(repo, messenger)

	if err := service.RecurringPosted(ctx, "user-1", 3); err != nil {
		t.Fatalf("RecurringPosted() failed: %v", err)
	}
	if err := service.BudgetExceeded(ctx, "user-1", "Food", decimal.NewFromInt(300), decimal.NewFromInt(420)); err != nil {
		t.Fatalf("BudgetExceeded() failed: %v", err)
	}
	if err := service.BudgetExceeded(ctx, "user-1", "", decimal.NewFromInt(1000), decimal.NewFromInt(1200)); err != nil {
		t.Fatalf("BudgetExceeded() overall failed: %v", err)
	}

	if len(messenger.sent) != 3 {
		t.Fatalf("sent = %v, want 3 notifications", messenger.sent)
	}
	if messenger.sent[1] != "Budget exceeded: Food" {
		t.Errorf("category alert title = %q", messenger.sent[1])
	}
	if messenger.sent[2] != "Monthly budget exceeded" {
		t.Errorf("overall alert title = %q", messenger.sent[2])
	}
}
