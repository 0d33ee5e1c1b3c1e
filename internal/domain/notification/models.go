package notification

import (
	"errors"
	"time"
)

// ErrInvalidInput marks registration failures caused by the caller's payload.
var ErrInvalidInput = errors.New("invalid input")

// DeviceToken is one registered push target for a user.
type DeviceToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"` // web, ios, android
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateDeviceTokenParams contains parameters for registering a device token.
type CreateDeviceTokenParams struct {
	UserID   string
	Token    string
	Platform string
}

// Validate validates the registration parameters.
func (p CreateDeviceTokenParams) Validate() error {
	if p.UserID == "" {
		return errors.New("user ID is required")
	}
	if p.Token == "" {
		return errors.New("device token is required")
	}
	switch p.Platform {
	case "web", "ios", "android":
		return nil
	default:
		return errors.New("platform must be web, ios or android")
	}
}
