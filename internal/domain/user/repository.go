package user

import "context"

// Directory is the minimal lookup the recurring processor needs: whether a
// user id still resolves to a real account.
type Directory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Repository defines the interface for user directory access
type Repository interface {
	Directory
	GetByID(ctx context.Context, id string) (*User, error)
}
