package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/server/status"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to HTTP responses. Authentication and
// token failures all map to the same 401 body so clients cannot probe for
// account existence or distinguish revoked from expired tokens.
func writeError(w http.ResponseWriter, err error) {
	var illegal *status.IllegalTransitionError

	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenRevoked):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorDeletionNotAllowed):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "deletion not allowed yet"})
	case errors.As(err, &illegal):
		writeJSON(w, http.StatusConflict, errorResponse{Error: illegal.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
