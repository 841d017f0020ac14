package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID returns shared.ErrNotFound when no user has the id
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByUsername returns shared.ErrNotFound when no user has the username
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
}
