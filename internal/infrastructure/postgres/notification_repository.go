package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"budgetix/internal/domain/notification"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// UpsertDeviceToken registers a token, reassigning it if it already belongs
// to another user and reactivating it if it was deactivated.
func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, params notification.CreateDeviceTokenParams) (*notification.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (id, user_id, token, platform, active)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (token)
		DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform,
		              active = TRUE, updated_at = NOW()
		RETURNING id, user_id, token, platform, active, created_at, updated_at
	`

	var t notification.DeviceToken
	err := r.db.QueryRowContext(ctx, query,
		uuid.New().String(), params.UserID, params.Token, params.Platform,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert device token: %w", err)
	}
	return &t, nil
}

func (r *NotificationRepository) ActiveTokensByUserID(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT token FROM device_tokens WHERE user_id = $1 AND active = TRUE`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *NotificationRepository) DeactivateToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE device_tokens SET active = FALSE, updated_at = NOW() WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to deactivate device token: %w", err)
	}
	return nil
}
