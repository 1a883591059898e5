// Package sessions implements the authentication flows: registration,
// login, access-token refresh and logout. It owns the stored refresh
// token; profile management lives in the users package.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ppetrovs/authd/internal/common"
	"github.com/ppetrovs/authd/internal/dbx"
	"github.com/ppetrovs/authd/internal/logging"
	"github.com/ppetrovs/authd/internal/server/auth"
	"github.com/ppetrovs/authd/internal/server/users"
)

// StoreFactory builds a user repository bound to the given handle.
// The service uses it to run multi-statement flows inside one transaction.
type StoreFactory func(db dbx.DBTX) users.Repository

// Service drives the session lifecycle. One instance serves all requests.
type Service struct {
	db       *sql.DB
	store    users.Repository
	newStore StoreFactory
	codec    *auth.Codec
	logger   logging.Logger
}

func NewService(db *sql.DB, newStore StoreFactory, codec *auth.Codec, logger logging.Logger) *Service {
	return &Service{
		db:       db,
		store:    newStore(db),
		newStore: newStore,
		codec:    codec,
		logger:   logger.With("module", "sessions"),
	}
}

// Register validates the payload, creates the account and signs the user in,
// returning the new account together with a fresh token pair. The insert and
// the refresh-token write happen in one transaction so a half-registered
// account can never be observed.
func (s *Service) Register(ctx context.Context, in users.RegisterInput) (*users.User, *auth.TokenPair, error) {
	if verr := users.ValidateRegistration(in); verr != nil {
		return nil, nil, verr
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &users.User{
		ID:           uuid.NewString(),
		Email:        users.NormalizeEmail(in.Email),
		Name:         in.Name,
		PasswordHash: hash,
	}

	pair, err := s.codec.MintPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("minting tokens: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		store := s.newStore(tx)
		created, err := store.Create(ctx, user)
		if err != nil {
			return err
		}
		if _, err := store.UpdateRefreshToken(ctx, created.ID, pair.RefreshToken); err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, nil, common.ErrDuplicateEmail
		}
		return nil, nil, fmt.Errorf("registering user: %w", err)
	}

	user.RefreshToken = pair.RefreshToken
	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies the credentials and issues a fresh token pair, replacing
// whatever refresh token the account held before. An unknown email and a
// wrong password both come back as common.ErrUnauthorized so the response
// cannot reveal which one it was.
func (s *Service) Login(ctx context.Context, email, password string) (*users.User, *auth.TokenPair, error) {
	user, err := s.store.FindByEmailWithPassword(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, common.ErrUnauthorized
	}

	pair, err := s.codec.MintPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("minting tokens: %w", err)
	}

	if _, err := s.store.UpdateRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("storing refresh token: %w", err)
	}

	user.PasswordHash = ""
	user.RefreshToken = pair.RefreshToken
	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh redeems a refresh token for a new access token. The presented
// token must decode cleanly, match a stored token verbatim, and its claims
// must agree with the account it is stored against. Every failure collapses
// to common.ErrInvalidToken.
//
// The stored refresh token is left in place: redeeming does not rotate it,
// so a client can refresh repeatedly until the token itself expires or the
// user logs out.
func (s *Service) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return "", common.ErrInvalidToken
	}

	user, err := s.store.FindByRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidToken
		}
		return "", fmt.Errorf("looking up refresh token: %w", err)
	}

	if claims.UserID != user.ID || claims.Email != user.Email {
		s.logger.Warn(ctx, "refresh token claims do not match owning account", "user_id", user.ID)
		return "", common.ErrInvalidToken
	}

	access, err := s.codec.Mint(user.ID, user.Email, auth.TokenAccess)
	if err != nil {
		return "", fmt.Errorf("minting access token: %w", err)
	}
	return access, nil
}

// Logout clears the stored refresh token. Logging out an account that holds
// no token, or that no longer exists, succeeds; the end state is the same.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return common.NewValidationError("user id is required")
	}
	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", userID)
	return nil
}

// CurrentUser resolves the authenticated subject's account. A vanished
// account yields (nil, nil) rather than an error; the caller decides how
// to present that.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*users.User, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}
