package repository

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
)

// UserFilter narrows List results.
type UserFilter struct {
	// IncludeInactive also returns users whose active flag is false.
	IncludeInactive bool
	// Type restricts the principal type; zero means any.
	Type model.PrincipalType
}

// UserRepository defines data access for usr rows and their principals.
type UserRepository interface {
	// Create inserts the usr row and its principal in one transaction and
	// returns the stored user with UserNo, PrincipalID and Joined set.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByUsername returns a user by login name (case-sensitive, as DAViCal stores it).
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// List returns users ordered by username.
	List(ctx context.Context, f UserFilter) ([]model.User, error)

	// Update writes fullname, email and active, and keeps the principal's
	// displayname in step with fullname.
	Update(ctx context.Context, u *model.User) error

	// SetPassword stores an already encoded password string.
	SetPassword(ctx context.Context, userNo int64, encoded string) error

	// Delete removes the usr row; DAViCal's foreign keys cascade to the
	// principal, collections, grants and memberships.
	Delete(ctx context.Context, userNo int64) error

	// AddRole grants a named role. Granting a held role is a no-op; an
	// unknown role name is sql.ErrNoRows.
	AddRole(ctx context.Context, userNo int64, role string) error

	// RemoveRole revokes a named role; sql.ErrNoRows if it was not held.
	RemoveRole(ctx context.Context, userNo int64, role string) error

	// Roles lists role names held by the user.
	Roles(ctx context.Context, userNo int64) ([]string, error)
}
