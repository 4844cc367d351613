package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/models"
)

type contextKey string

const accountContextKey contextKey = "account"

// accountFromContext returns the authenticated account stored by the
// authenticator middleware.
func accountFromContext(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	return account, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

// authenticator validates the bearer token, loads the owning account, and
// stores it in the request context. Requests without a valid token get a
// uniform 401.
func (s *Server) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		accountID, err := s.tokens.Validate(r.Context(), token)
		if err != nil {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		account, err := s.accounts.Get(r.Context(), accountID)
		if err != nil {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireModerator rejects requests from accounts without the moderator role.
func (s *Server) requireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := accountFromContext(r.Context())
		if !ok || !account.Moderator() {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "moderator role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with status, duration, and the
// request id assigned by chi's RequestID middleware.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
