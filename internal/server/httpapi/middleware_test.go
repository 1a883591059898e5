package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrovs/authd/internal/server/auth"
)

func TestGuard_MissingHeader(t *testing.T) {
	env := newTestEnv(t)

	invoked := false
	handler := env.server.guard(func(w http.ResponseWriter, r *http.Request) { invoked = true })

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, invoked)
}

func TestGuard_MalformedHeader(t *testing.T) {
	env := newTestEnv(t)

	handler := env.server.guard(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuard_BadToken(t *testing.T) {
	env := newTestEnv(t)

	handler := env.server.guard(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuard_DeletedSubject(t *testing.T) {
	env := newTestEnv(t)

	// Token for an account that no longer exists. The guard must stop
	// here; the handler never sees the request.
	access, err := env.codec.Mint("gone", "gone@example.com", auth.TokenAccess)
	require.NoError(t, err)

	invoked := false
	handler := env.server.guard(func(w http.ResponseWriter, r *http.Request) { invoked = true })

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, invoked)
}

func TestGuard_AttachesIdentity(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "u-1", "ann@example.com", "Aa1!aaaa")

	access, err := env.codec.Mint(u.ID, u.Email, auth.TokenAccess)
	require.NoError(t, err)

	var got Identity
	handler := env.server.guard(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		got = id
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	handler(httptest.NewRecorder(), req)

	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "ann@example.com", got.Email)
}
