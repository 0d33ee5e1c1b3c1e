package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	UpsertFunc       func(ctx context.Context, params UpsertParams) (*Budget, error)
	ListByUserIDFunc func(ctx context.Context, userID string) ([]*Budget, error)
	DeleteFunc       func(ctx context.Context, id string) error
	GetByIDFunc      func(ctx context.Context, id string) (*Budget, error)
}

func (m *MockRepository) Upsert(ctx context.Context, params UpsertParams) (*Budget, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID string) ([]*Budget, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Budget, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockSpendReader is a mock implementation of SpendReader
type MockSpendReader struct {
	CategoryTotalsFunc func(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error)
}

func (m *MockSpendReader) CategoryTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	if m.CategoryTotalsFunc != nil {
		return m.CategoryTotalsFunc(ctx, userID, from, to)
	}
	return map[string]decimal.Decimal{}, nil
}

type mockAlerter struct {
	categories []string
}

func (m *mockAlerter) BudgetExceeded(ctx context.Context, userID, category string, budget, spent decimal.Decimal) error {
	m.categories = append(m.categories, category)
	return nil
}

func TestSetBudget_Validation(t *testing.T) {
	ctx := context.Background()
	service := NewService(&MockRepository{}, &MockSpendReader{}, nil)

	_, err := service.SetBudget(ctx, UpsertParams{UserID: "", Amount: decimal.NewFromInt(100)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetBudget() without user error = %v, want ErrInvalidInput", err)
	}

	_, err = service.SetBudget(ctx, UpsertParams{UserID: "user-1", Amount: decimal.Zero})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("SetBudget() with zero amount error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteBudget_Ownership(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Budget, error) {
			return &Budget{ID: id, UserID: "owner"}, nil
		},
	}
	service := NewService(repo, &MockSpendReader{}, nil)

	if err := service.DeleteBudget(ctx, "b-1", "intruder"); !errors.Is(err, ErrForbidden) {
		t.Errorf("DeleteBudget() as non-owner error = %v, want ErrForbidden", err)
	}
	if err := service.DeleteBudget(ctx, "b-1", "owner"); err != nil {
		t.Errorf("DeleteBudget() as owner failed: %v", err)
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*Budget, error) {
			return []*Budget{
				{ID: "b-overall", UserID: userID, Category: "", Amount: decimal.NewFromInt(1000)},
				{ID: "b-food", UserID: userID, Category: "Food", Amount: decimal.NewFromInt(300)},
				{ID: "b-fuel", UserID: userID, Category: "Fuel", Amount: decimal.NewFromInt(150)},
			}, nil
		},
	}
	var gotFrom, gotTo time.Time
	spend := &MockSpendReader{
		CategoryTotalsFunc: func(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
			gotFrom, gotTo = from, to
			return map[string]decimal.Decimal{
				"Food": decimal.NewFromInt(420),
				"Fuel": decimal.NewFromInt(90),
				"Fun":  decimal.NewFromInt(60),
			}, nil
		},
	}
	service := NewService(repo, spend, nil)

	status, err := service.Status(ctx, "user-1", time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}

	if !gotFrom.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v, want 2024-03-01", gotFrom)
	}
	if !gotTo.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v, want 2024-04-01", gotTo)
	}

	if status.Month != "2024-03" {
		t.Errorf("Month = %q, want 2024-03", status.Month)
	}
	if !status.TotalSpent.Equal(decimal.NewFromInt(570)) {
		t.Errorf("TotalSpent = %s, want 570", status.TotalSpent)
	}
	if !status.TotalBudget.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalBudget = %s, want 1000", status.TotalBudget)
	}
	if status.OverBudget {
		t.Error("OverBudget = true, want false")
	}

	if len(status.Categories) != 2 {
		t.Fatalf("Categories = %d, want 2", len(status.Categories))
	}
	// Sorted by category name.
	if status.Categories[0].Category != "Food" || !status.Categories[0].Over {
		t.Errorf("Food status = %+v, want over budget", status.Categories[0])
	}
	if status.Categories[1].Category != "Fuel" || status.Categories[1].Over {
		t.Errorf("Fuel status = %+v, want within budget", status.Categories[1])
	}
}

func TestCheckAndAlert(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID string) ([]*Budget, error) {
			return []*Budget{
				{ID: "b-overall", UserID: userID, Category: "", Amount: decimal.NewFromInt(100)},
				{ID: "b-food", UserID: userID, Category: "Food", Amount: decimal.NewFromInt(50)},
			}, nil
		},
	}
	spend := &MockSpendReader{
		CategoryTotalsFunc: func(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{"Food": decimal.NewFromInt(120)}, nil
		},
	}
	alerter := &mockAlerter{}
	service := NewService(repo, spend, alerter)

	status, err := service.CheckAndAlert(ctx, "user-1", time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CheckAndAlert() failed: %v", err)
	}
	if !status.OverBudget {
		t.Error("OverBudget = false, want true")
	}

	// One overall alert (empty category) and one for Food.
	if len(alerter.categories) != 2 {
		t.Fatalf("alerts = %v, want overall + Food", alerter.categories)
	}
	if alerter.categories[0] != "" || alerter.categories[1] != "Food" {
		t.Errorf("alerts = %v, want [\"\", \"Food\"]", alerter.categories)
	}
}
