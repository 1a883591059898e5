package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ppetrovs/authd/internal/common"
	"github.com/ppetrovs/authd/internal/logging"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (nopLogger) Error(ctx context.Context, msg string, args ...any) {}
func (nopLogger) With(args ...any) logging.Logger                    { return nopLogger{} }

// stubRepo records the patch Update receives; other methods are canned.
type stubRepo struct {
	Repository
	user       *User
	findErr    error
	gotPatch   UpdateInput
	deletedIDs []string
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.user, nil
}

func (s *stubRepo) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	s.gotPatch = in
	return s.user, nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) error {
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func TestUpdate_HashesOnlyWhenPasswordChanges(t *testing.T) {
	repo := &stubRepo{user: &User{ID: "u-1"}}
	svc := NewService(repo, nopLogger{})

	name := "Anna"
	_, err := svc.Update(context.Background(), "u-1", UpdateProfileInput{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, repo.gotPatch.PasswordHash, "no password change, no hash")
	require.NotNil(t, repo.gotPatch.Name)
	assert.Equal(t, "Anna", *repo.gotPatch.Name)

	password := "Aa1!aaaa"
	_, err = svc.Update(context.Background(), "u-1", UpdateProfileInput{Password: &password})
	require.NoError(t, err)
	require.NotNil(t, repo.gotPatch.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*repo.gotPatch.PasswordHash), []byte(password)))
}

func TestUpdate_RejectsInvalidFields(t *testing.T) {
	repo := &stubRepo{user: &User{ID: "u-1"}}
	svc := NewService(repo, nopLogger{})

	bad := "x"
	_, err := svc.Update(context.Background(), "u-1", UpdateProfileInput{Name: &bad})

	var verr *common.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdate_NormalizesEmail(t *testing.T) {
	repo := &stubRepo{user: &User{ID: "u-1"}}
	svc := NewService(repo, nopLogger{})

	email := " Ann@Example.Com "
	_, err := svc.Update(context.Background(), "u-1", UpdateProfileInput{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, repo.gotPatch.Email)
	assert.Equal(t, "ann@example.com", *repo.gotPatch.Email)
}

func TestDelete_MissingUser(t *testing.T) {
	repo := &stubRepo{findErr: common.ErrNotFound}
	svc := NewService(repo, nopLogger{})

	err := svc.Delete(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Empty(t, repo.deletedIDs)
}

func TestDelete_OK(t *testing.T) {
	repo := &stubRepo{user: &User{ID: "u-1"}}
	svc := NewService(repo, nopLogger{})

	require.NoError(t, svc.Delete(context.Background(), "u-1"))
	assert.Equal(t, []string{"u-1"}, repo.deletedIDs)
}
