package users

import "time"

// User is an account record. PasswordHash and RefreshToken are secrets:
// repository methods exclude them from default reads, and only the
// credential- and token-specific lookups populate them.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateInput is a partial update; nil fields are left unchanged.
// Password arrives here already hashed; hashing is the caller's job and
// happens only when the password is actually being changed.
type UpdateInput struct {
	Name         *string
	Email        *string
	PasswordHash *string
}
