package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is the authenticated subject attached to guarded requests.
type Identity struct {
	UserID string
	Email  string
}

// IdentityFrom extracts the authenticated identity from a request context.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	return id, ok
}

// guard authenticates a request from its Bearer access token and resolves
// the subject against the live user store. A token whose subject has been
// deleted since minting is rejected here; the wrapped handler never runs
// for a vanished account.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, prefix) {
			respondFail(w, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := s.codec.Verify(strings.TrimPrefix(header, prefix))
		if err != nil {
			respondFail(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		user, err := s.sessions.CurrentUser(r.Context(), claims.UserID)
		if err != nil {
			s.logger.Error(r.Context(), "resolving token subject", "error", err.Error())
			respondFail(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if user == nil {
			respondFail(w, http.StatusUnauthorized, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, Identity{UserID: user.ID, Email: user.Email})
		next(w, r.WithContext(ctx))
	}
}
