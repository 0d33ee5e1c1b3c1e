package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"budgetix/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Upsert(ctx context.Context, params budget.UpsertParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, category, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, category)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id, user_id, category, amount, created_at, updated_at
	`

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query,
		uuid.New().String(), params.UserID, params.Category, params.Amount,
	).Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}
	return &b, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	query := `SELECT id, user_id, category, amount, created_at, updated_at FROM budgets WHERE id = $1`

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &b, nil
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID string) ([]*budget.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY category
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}
