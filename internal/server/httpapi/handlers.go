package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ppetrovs/authd/internal/common"
	"github.com/ppetrovs/authd/internal/server/users"
)

const refreshCookieName = "refreshToken"

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.RefreshTokenValidityDuration.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// respondError maps the common error taxonomy onto HTTP statuses. Anything
// unrecognized is logged in full and reported as a bare 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFail(w, http.StatusBadRequest, strings.Join(verr.Violations, "; "))
	case errors.Is(err, common.ErrDuplicateEmail):
		respondFail(w, http.StatusBadRequest, common.ErrDuplicateEmail.Error())
	case errors.Is(err, common.ErrUnauthorized):
		respondFail(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrInvalidToken):
		respondFail(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, common.ErrNotFound):
		respondFail(w, http.StatusNotFound, "not found")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
		respondFail(w, http.StatusInternalServerError, "internal server error")
	}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := s.sessions.Register(r.Context(), users.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	respondOK(w, http.StatusCreated, "user registered", map[string]any{
		"user":        toUserPayload(user),
		"accessToken": pair.AccessToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			respondFail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.respondError(w, r, err)
		return
	}

	s.setRefreshCookie(w, pair.RefreshToken)
	respondOK(w, http.StatusOK, "login successful", map[string]any{
		"user":        toUserPayload(user),
		"accessToken": pair.AccessToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		respondFail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	access, err := s.sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		// The outward message is always the same generic one; the typed
		// cause stays in the logs.
		if !errors.Is(err, common.ErrInvalidToken) {
			s.logger.Error(r.Context(), "refresh failed", "error", err.Error())
		}
		respondFail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	respondOK(w, http.StatusOK, "token refreshed", map[string]any{
		"accessToken": access,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.sessions.Logout(r.Context(), identity.UserID); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.clearRefreshCookie(w)
	respondOK(w, http.StatusOK, "logged out", nil)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondFail(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.sessions.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", map[string]any{
		"user": toUserPayload(user),
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	respondOK(w, http.StatusOK, "service is up", nil)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	payload := make([]*userPayload, 0, len(list))
	for _, u := range list {
		payload = append(payload, toUserPayload(u))
	}
	respondOK(w, http.StatusOK, "", map[string]any{"users": payload})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "", map[string]any{"user": toUserPayload(user)})
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Update(r.Context(), r.PathValue("id"), users.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "user updated", map[string]any{"user": toUserPayload(user)})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondOK(w, http.StatusOK, "user deleted", nil)
}
