package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/server/services"
	"github.com/openatlas/openatlas/internal/server/status"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin authenticates the supplied credentials and issues an access
// token. All failures answer with the same 401.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := s.accounts.Authenticate(r.Context(), req.Identifier, req.Password, services.AuthenticateOptions{})
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := s.tokens.Issue(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleLogout revokes the presented token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.tokens.Revoke(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteAccount soft-destroys the authenticated account, provided its
// deletion window has opened.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	allowed, err := s.accounts.DeletionAllowed(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	if !allowed {
		writeError(w, common.ErrorDeletionNotAllowed)
		return
	}

	if err := s.accounts.SoftDestroy(r.Context(), account); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type deletionWindowResponse struct {
	Allowed   bool      `json:"allowed"`
	AllowedAt time.Time `json:"allowed_at"`
}

// handleDeletionWindow reports when the authenticated account may delete
// itself.
func (s *Server) handleDeletionWindow(w http.ResponseWriter, r *http.Request) {
	account, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	at, err := s.accounts.DeletionAllowedAt(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	allowed, err := s.accounts.DeletionAllowed(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deletionWindowResponse{Allowed: allowed, AllowedAt: at})
}

type limitsResponse struct {
	MessagesPerHour          int `json:"messages_per_hour"`
	FollowsPerHour           int `json:"follows_per_hour"`
	ChangesetCommentsPerHour int `json:"changeset_comments_per_hour"`
}

// handleLimits returns the account's current hourly quotas. Accounts may
// query their own limits; moderators may query anyone's.
func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	caller, ok := accountFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	if id != caller.ID && !caller.Moderator() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	account := caller
	if id != caller.ID {
		account, err = s.accounts.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	messages, err := s.limiter.MessagesPerHour(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	follows, err := s.limiter.FollowsPerHour(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := s.limiter.ChangesetCommentsPerHour(r.Context(), account)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, limitsResponse{
		MessagesPerHour:          messages,
		FollowsPerHour:           follows,
		ChangesetCommentsPerHour: comments,
	})
}

type transitionResponse struct {
	ID     int64         `json:"id"`
	Status status.Status `json:"status"`
}

// handleTransition applies a moderation status event to the given account.
// Illegal transitions answer 409 and change nothing.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	event := status.Event(chi.URLParam(r, "event"))
	switch event {
	case status.EventActivate, status.EventConfirm, status.EventUnconfirm,
		status.EventSuspend, status.EventUnsuspend, status.EventHide,
		status.EventUnhide, status.EventSoftDestroy:
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown event"})
		return
	}

	account, err := s.accounts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.accounts.Transition(r.Context(), account, event); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{ID: account.ID, Status: account.Status})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
