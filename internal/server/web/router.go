// Package web exposes the HTTP API: login/logout, account deletion, the
// moderation transition endpoints, and per-account rate limits.
package web

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/ratelimit"
	"github.com/openatlas/openatlas/internal/server/services"
)

type Server struct {
	db       *sql.DB
	accounts *services.AccountService
	tokens   *services.TokenService
	limiter  *ratelimit.Limiter
	logger   logging.Logger
}

func NewServer(db *sql.DB, accounts *services.AccountService, tokens *services.TokenService,
	limiter *ratelimit.Limiter, logger logging.Logger) *Server {
	return &Server{
		db:       db,
		accounts: accounts,
		tokens:   tokens,
		limiter:  limiter,
		logger:   logger,
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.With(s.authenticator).Post("/logout", s.handleLogout)
	})

	r.Route("/account/v1", func(r chi.Router) {
		r.Use(s.authenticator)

		r.Delete("/", s.handleDeleteAccount)
		r.Get("/deletion", s.handleDeletionWindow)
		r.Get("/{id}/limits", s.handleLimits)

		r.With(s.requireModerator).Post("/{id}/{event}", s.handleTransition)
	})

	return r
}
