package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReportRepository serves the dashboard aggregates. Template rows
// (is_recurring = true) are excluded everywhere: they define recurrences,
// they are not spending.
type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CategoryTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND is_recurring = FALSE AND date >= $2 AND date < $3
		GROUP BY category
	`
	return r.totals(ctx, query, userID, from, to)
}

func (r *ReportRepository) MethodTotals(ctx context.Context, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT payment_method, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE user_id = $1 AND is_recurring = FALSE AND date >= $2 AND date < $3
		GROUP BY payment_method
	`
	return r.totals(ctx, query, userID, from, to)
}

func (r *ReportRepository) ExpenseCount(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM expenses
		WHERE user_id = $1 AND is_recurring = FALSE AND date >= $2 AND date < $3
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

func (r *ReportRepository) totals(ctx context.Context, query, userID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var key string
		var total decimal.Decimal
		if err := rows.Scan(&key, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate row: %w", err)
		}
		totals[key] = total
	}
	return totals, rows.Err()
}
