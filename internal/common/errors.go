// Package common defines shared constants and sentinel errors used across
// the server layers of OpenAtlas. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// More than one account matched a case/normalization-insensitive
	// credential lookup. Authentication treats this exactly like "not
	// found" so account existence is never leaked; the sentinel exists
	// for internal flow control and logging only.
	ErrorAmbiguousCredential = errors.New("ambiguous credential")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Account deletion requested before the deletion window opened.
	ErrorDeletionNotAllowed = errors.New("deletion not allowed yet")
)
