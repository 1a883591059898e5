package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ppetrovs/authd/internal/common"
	"github.com/ppetrovs/authd/internal/logging"
	"github.com/ppetrovs/authd/internal/server/auth"
)

// Service implements account management: listing, lookup, profile updates
// and deletion. Session-related flows (register/login/refresh/logout) live
// in the sessions package; this service never touches the refresh token.
type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "users")}
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	result, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries the changeable profile fields; nil means
// "leave as is". Password is plaintext here and hashed exactly once,
// and only when it is actually being changed.
type UpdateProfileInput struct {
	Name     *string
	Email    *string
	Password *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateProfileInput) (*User, error) {
	patch := UpdateInput{}

	verr := &common.ValidationError{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 || len(name) > 50 {
			verr.Add("name must be between 3 and 50 characters long")
		}
		patch.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if !emailPattern.MatchString(email) {
			verr.Add("please provide a valid email address")
		}
		patch.Email = &email
	}
	if in.Password != nil {
		if e := ValidatePassword(*in.Password); e != nil {
			verr.Violations = append(verr.Violations, e.Violations...)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info(ctx, "user updated", "user_id", id)
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("fetching user: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}
