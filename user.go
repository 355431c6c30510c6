package readlater

import (
	"context"
	"time"
)

// User represents an account that owns entries, tags and site credentials.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the user contains invalid fields.
func (u *User) Validate() error {
	if u.Username == "" {
		return Errorf(EINVALID, "username required")
	}
	return nil
}

// UserService represents a service for managing users.
type UserService interface {
	// CreateUser creates a new user.
	// Returns ECONFLICT if the username is taken.
	CreateUser(ctx context.Context, user *User) error

	// FindUserByID retrieves a user by ID.
	// Returns ENOTFOUND if user does not exist.
	FindUserByID(ctx context.Context, id string) (*User, error)

	// FindUserByUsername retrieves a user by username.
	// Returns ENOTFOUND if user does not exist.
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}
