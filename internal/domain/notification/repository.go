package notification

import "context"

// Repository defines the interface for device token persistence
type Repository interface {
	UpsertDeviceToken(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error)
	ActiveTokensByUserID(ctx context.Context, userID string) ([]string, error)
	DeactivateToken(ctx context.Context, token string) error
}
