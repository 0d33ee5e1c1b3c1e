package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc                       func(ctx context.Context, params CreateParams) (*Expense, error)
	GetByIDFunc                      func(ctx context.Context, id string) (*Expense, error)
	ListByUserIDFunc                 func(ctx context.Context, userID string, limit, offset int) ([]*Expense, error)
	UpdateFunc                       func(ctx context.Context, id string, params UpdateParams) (*Expense, error)
	DeleteFunc                       func(ctx context.Context, id string) error
	ListRecurringTemplatesFunc       func(ctx context.Context) ([]*Expense, error)
	ListRecurringTemplatesByUserFunc func(ctx context.Context, userID string) ([]*Expense, error)
	RecurringUserIDsFunc             func(ctx context.Context) ([]string, error)
	FindByOwnerCategoryDateFunc      func(ctx context.Context, userID, category string, date time.Time) ([]*Expense, error)
	FindRecurringAfterFunc           func(ctx context.Context, userID, category string, after time.Time) ([]*Expense, error)
	UpdateRecurrenceFunc             func(ctx context.Context, id string, params RecurrenceUpdate) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Expense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*Expense, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, params UpdateParams) (*Expense, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) ListRecurringTemplates(ctx context.Context) ([]*Expense, error) {
	if m.ListRecurringTemplatesFunc != nil {
		return m.ListRecurringTemplatesFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) ListRecurringTemplatesByUser(ctx context.Context, userID string) ([]*Expense, error) {
	if m.ListRecurringTemplatesByUserFunc != nil {
		return m.ListRecurringTemplatesByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) RecurringUserIDs(ctx context.Context) ([]string, error) {
	if m.RecurringUserIDsFunc != nil {
		return m.RecurringUserIDsFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) FindByOwnerCategoryDate(ctx context.Context, userID, category string, date time.Time) ([]*Expense, error) {
	if m.FindByOwnerCategoryDateFunc != nil {
		return m.FindByOwnerCategoryDateFunc(ctx, userID, category, date)
	}
	return nil, nil
}

func (m *MockRepository) FindRecurringAfter(ctx context.Context, userID, category string, after time.Time) ([]*Expense, error) {
	if m.FindRecurringAfterFunc != nil {
		return m.FindRecurringAfterFunc(ctx, userID, category, after)
	}
	return nil, nil
}

func (m *MockRepository) UpdateRecurrence(ctx context.Context, id string, params RecurrenceUpdate) error {
	if m.UpdateRecurrenceFunc != nil {
		return m.UpdateRecurrenceFunc(ctx, id, params)
	}
	return nil
}

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateParams
		wantErr bool
	}{
		{
			name: "Success",
			params: CreateParams{
				UserID:   "user-1",
				Amount:   decimal.NewFromInt(50),
				Category: "Groceries",
				Date:     date(2024, time.March, 15),
			},
			wantErr: false,
		},
		{
			name: "Missing user ID",
			params: CreateParams{
				Amount:   decimal.NewFromInt(50),
				Category: "Groceries",
				Date:     date(2024, time.March, 15),
			},
			wantErr: true,
		},
		{
			name: "Zero amount",
			params: CreateParams{
				UserID:   "user-1",
				Amount:   decimal.Zero,
				Category: "Groceries",
				Date:     date(2024, time.March, 15),
			},
			wantErr: true,
		},
		{
			name: "Recurring without frequency",
			params: CreateParams{
				UserID:      "user-1",
				Amount:      decimal.NewFromInt(50),
				Category:    "Rent",
				Date:        date(2024, time.March, 1),
				IsRecurring: true,
			},
			wantErr: true,
		},
		{
			name: "Recurring end date before start",
			params: CreateParams{
				UserID:           "user-1",
				Amount:           decimal.NewFromInt(50),
				Category:         "Rent",
				Date:             date(2024, time.March, 1),
				IsRecurring:      true,
				Frequency:        FrequencyMonthly,
				RecurringEndDate: timePtr(date(2024, time.February, 1)),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*Expense, error) {
					return &Expense{ID: "exp-1", UserID: params.UserID}, nil
				},
			}
			service := NewService(repo)

			_, err := service.CreateExpense(ctx, tt.params)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateExpense() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("CreateExpense() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateExpense_RecurringBookkeeping(t *testing.T) {
	ctx := context.Background()

	var got CreateParams
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Expense, error) {
			got = params
			return &Expense{ID: "exp-1"}, nil
		},
	}
	service := NewService(repo)

	_, err := service.CreateExpense(ctx, CreateParams{
		UserID:      "user-1",
		Amount:      decimal.NewFromInt(1200),
		Category:    "Rent",
		Date:        date(2024, time.January, 15),
		IsRecurring: true,
		Frequency:   FrequencyMonthly,
	})
	if err != nil {
		t.Fatalf("CreateExpense() failed: %v", err)
	}

	if got.RecurringStartDate == nil || !got.RecurringStartDate.Equal(date(2024, time.January, 15)) {
		t.Errorf("RecurringStartDate = %v, want 2024-01-15", got.RecurringStartDate)
	}
	if got.LastOccurred == nil || !got.LastOccurred.Equal(date(2024, time.January, 15)) {
		t.Errorf("LastOccurred = %v, want 2024-01-15", got.LastOccurred)
	}
	if got.RecurringNextDate == nil || !got.RecurringNextDate.Equal(date(2024, time.February, 15)) {
		t.Errorf("RecurringNextDate = %v, want 2024-02-15", got.RecurringNextDate)
	}
}

func TestGetExpense_Ownership(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
			return &Expense{ID: id, UserID: "owner"}, nil
		},
	}
	service := NewService(repo)

	if _, err := service.GetExpense(ctx, "exp-1", "owner"); err != nil {
		t.Errorf("GetExpense() as owner failed: %v", err)
	}

	_, err := service.GetExpense(ctx, "exp-1", "intruder")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("GetExpense() as non-owner error = %v, want ErrForbidden", err)
	}
}

func TestGetExpense_NotFound(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
			return nil, nil
		},
	}
	service := NewService(repo)

	_, err := service.GetExpense(ctx, "missing", "user-1")
	if !errors.Is(err, ErrExpenseNotFound) {
		t.Errorf("GetExpense() error = %v, want ErrExpenseNotFound", err)
	}
}

func TestUpdateExpense_Validation(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
			return &Expense{ID: id, UserID: "user-1"}, nil
		},
	}
	service := NewService(repo)

	negative := decimal.NewFromInt(-5)
	_, err := service.UpdateExpense(ctx, "exp-1", "user-1", UpdateParams{Amount: &negative})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateExpense() with negative amount error = %v, want ErrInvalidInput", err)
	}

	bad := Frequency("Sometimes")
	_, err = service.UpdateExpense(ctx, "exp-1", "user-1", UpdateParams{Frequency: &bad})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateExpense() with bad frequency error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteExpense_ChecksOwnershipFirst(t *testing.T) {
	ctx := context.Background()

	deleted := false
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Expense, error) {
			return &Expense{ID: id, UserID: "owner"}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	service := NewService(repo)

	if err := service.DeleteExpense(ctx, "exp-1", "intruder"); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteExpense() as non-owner error = %v, want ErrForbidden", err)
	}
	if deleted {
		t.Error("DeleteExpense() deleted a row it should not own")
	}

	if err := service.DeleteExpense(ctx, "exp-1", "owner"); err != nil {
		t.Errorf("DeleteExpense() as owner failed: %v", err)
	}
	if !deleted {
		t.Error("DeleteExpense() as owner did not delete")
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
