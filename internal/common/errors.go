// Package common defines shared constants and sentinel errors used across
// the authd layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, expired or malformed token). Expired and
	// malformed tokens are deliberately not distinguished here.
	ErrInvalidToken = errors.New("invalid token")

	// Startup-only errors (missing key material, unset required settings).
	ErrConfiguration = errors.New("configuration error")
)

// ValidationError reports one or more input-policy violations. It carries
// every violation found so the caller sees the full list in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError builds a ValidationError from a violation list.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Add appends a formatted violation.
func (e *ValidationError) Add(format string, args ...any) {
	e.Violations = append(e.Violations, fmt.Sprintf(format, args...))
}

// Empty reports whether no violations were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Violations) == 0
}
