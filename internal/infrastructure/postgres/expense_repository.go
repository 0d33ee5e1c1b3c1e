package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"budgetix/internal/domain/expense"
)

const expenseColumns = `id, user_id, amount, category, description, date, payment_method,
	       frequency, is_recurring, recurring_start_date, last_occurred,
	       recurring_next_date, recurring_end_date, created_at, updated_at`

type ExpenseRepository struct {
	db *DB
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, params expense.CreateParams) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (id, user_id, amount, category, description, date, payment_method,
		                      frequency, is_recurring, recurring_start_date, last_occurred,
		                      recurring_next_date, recurring_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + expenseColumns

	row := r.db.QueryRowContext(
		ctx, query,
		uuid.New().String(), params.UserID, params.Amount, params.Category, params.Description,
		params.Date, params.PaymentMethod, string(params.Frequency), params.IsRecurring,
		nullTime(params.RecurringStartDate), nullTime(params.LastOccurred),
		nullTime(params.RecurringNextDate), nullTime(params.RecurringEndDate),
	)

	e, err := scanExpense(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", translateFKViolation(err))
	}
	return e, nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expense.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) Update(ctx context.Context, id string, params expense.UpdateParams) (*expense.Expense, error) {
	set := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Amount != nil {
		set = append(set, "amount = "+arg(*params.Amount))
	}
	if params.Category != nil {
		set = append(set, "category = "+arg(*params.Category))
	}
	if params.Description != nil {
		set = append(set, "description = "+arg(*params.Description))
	}
	if params.Date != nil {
		set = append(set, "date = "+arg(*params.Date))
	}
	if params.PaymentMethod != nil {
		set = append(set, "payment_method = "+arg(*params.PaymentMethod))
	}
	if params.Frequency != nil {
		set = append(set, "frequency = "+arg(string(*params.Frequency)))
	}
	if params.RecurringEndDate != nil {
		set = append(set, "recurring_end_date = "+arg(*params.RecurringEndDate))
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	set = append(set, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE expenses SET %s WHERE id = %s RETURNING %s`,
		strings.Join(set, ", "), arg(id), expenseColumns)

	e, err := scanExpense(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, expense.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepository) ListRecurringTemplates(ctx context.Context) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE is_recurring = TRUE
		ORDER BY user_id, created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) ListRecurringTemplatesByUser(ctx context.Context, userID string) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE is_recurring = TRUE AND user_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates by user: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) RecurringUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT user_id FROM expenses WHERE is_recurring = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ExpenseRepository) FindByOwnerCategoryDate(ctx context.Context, userID, category string, date time.Time) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND category = $2 AND date = $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, category, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find expenses by owner/category/date: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) FindRecurringAfter(ctx context.Context, userID, category string, after time.Time) ([]*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND category = $2 AND is_recurring = TRUE AND date > $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, category, after)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring rows past date: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) UpdateRecurrence(ctx context.Context, id string, params expense.RecurrenceUpdate) error {
	set := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.IsRecurring != nil {
		set = append(set, "is_recurring = "+arg(*params.IsRecurring))
	}
	if params.LastOccurred != nil {
		set = append(set, "last_occurred = "+arg(*params.LastOccurred))
	}
	if params.RecurringNextDate != nil {
		set = append(set, "recurring_next_date = "+arg(*params.RecurringNextDate))
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE expenses SET %s WHERE id = %s`, strings.Join(set, ", "), arg(id))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update recurrence bookkeeping: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

// translateFKViolation maps a postgres foreign-key violation on user_id to
// the domain's ErrOwnerMissing so the recurring processor can deactivate the
// template instead of treating a deleted account as a hard failure.
func translateFKViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return fmt.Errorf("%w: %v", expense.ErrOwnerMissing, err)
	}
	return err
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*expense.Expense, error) {
	var e expense.Expense
	var frequency sql.NullString
	var startDate, lastOccurred, nextDate, endDate sql.NullTime

	err := row.Scan(
		&e.ID, &e.UserID, &e.Amount, &e.Category, &e.Description, &e.Date, &e.PaymentMethod,
		&frequency, &e.IsRecurring, &startDate, &lastOccurred, &nextDate, &endDate,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if frequency.Valid {
		e.Frequency = expense.Frequency(frequency.String)
	}
	e.RecurringStartDate = timePtr(startDate)
	e.LastOccurred = timePtr(lastOccurred)
	e.RecurringNextDate = timePtr(nextDate)
	e.RecurringEndDate = timePtr(endDate)

	return &e, nil
}

func scanExpenses(rows *sql.Rows) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	// Dates come back as midnight UTC; keep them that way for comparisons.
	v := t.Time.UTC()
	return &v
}
