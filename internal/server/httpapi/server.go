// Package httpapi exposes the authentication and account-management
// endpoints over HTTP with a uniform JSON envelope.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ppetrovs/authd/internal/logging"
	"github.com/ppetrovs/authd/internal/server/auth"
	"github.com/ppetrovs/authd/internal/server/config"
	"github.com/ppetrovs/authd/internal/server/sessions"
	"github.com/ppetrovs/authd/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg      *config.Config
	codec    *auth.Codec
	sessions *sessions.Service
	users    *users.Service
	logger   logging.Logger
}

func NewServer(cfg *config.Config, codec *auth.Codec, ss *sessions.Service, us *users.Service, l logging.Logger) *Server {
	return &Server{
		cfg:      cfg,
		codec:    codec,
		sessions: ss,
		users:    us,
		logger:   l.With("module", "http_server"),
	}
}

// Routes wires every endpoint onto a mux. Session endpoints that prove
// identity by credentials or cookie are open; everything else sits behind
// the access-token guard.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh-token", s.handleRefresh)
	mux.HandleFunc("POST /auth/logout", s.guard(s.handleLogout))
	mux.HandleFunc("GET /auth/me", s.guard(s.handleMe))

	mux.HandleFunc("GET /v1/healthcheck", s.handleHealthcheck)

	mux.HandleFunc("GET /users", s.guard(s.handleListUsers))
	mux.HandleFunc("GET /users/{id}", s.guard(s.handleGetUser))
	mux.HandleFunc("PATCH /users/{id}", s.guard(s.handleUpdateUser))
	mux.HandleFunc("DELETE /users/{id}", s.guard(s.handleDeleteUser))

	return mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.EndpointAddrHTTP,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
