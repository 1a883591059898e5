// Package users holds the account model, its validation rules, and the
// PostgreSQL-backed repository that is the single owner of the stored
// refresh-token field.
package users

import (
	"context"
)

// Repository defines the persistence operations for user accounts.
//
// UpdateRefreshToken and ClearRefreshToken are each a single atomic write;
// concurrent logins/logouts for one user resolve last-write-wins, never as
// a torn read. Lookups that miss return common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByEmailWithPassword additionally populates PasswordHash.
	// Secrets are excluded everywhere else.
	FindByEmailWithPassword(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*User, error)
	Delete(ctx context.Context, id string) error

	UpdateRefreshToken(ctx context.Context, id, token string) (*User, error)
	FindByRefreshToken(ctx context.Context, token string) (*User, error)
	ClearRefreshToken(ctx context.Context, id string) error
}
