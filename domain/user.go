package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents a community member.
// Accounts are issued elsewhere; this service only consumes identities.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	Avatar    string    // Avatar image URL, may be empty
	Role      Role      // member or admin
	Trusted   bool      // Trusted authors skip the moderation queue
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// IsAdmin reports whether the user holds the elevated role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (User, error)

	GetByIDs(ctx context.Context, userIDs []int64) ([]User, error)
}
