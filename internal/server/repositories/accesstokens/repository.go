// Package accesstokens declares the repository contract for access token
// records backing the signed tokens handed out at login.
package accesstokens

import (
	"context"
	"time"

	"github.com/openatlas/openatlas/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// access token records.
type Repository interface {
	// Create stores a new token record.
	Create(ctx context.Context, token *models.AccessToken) error

	// Get looks up a token record by its id. Implementations return a
	// not-found error when the record is absent.
	Get(ctx context.Context, id string) (*models.AccessToken, error)

	// Revoke marks a single token revoked at now. Revoking an already
	// revoked or unknown token is not an error.
	Revoke(ctx context.Context, id string, now time.Time) error

	// RevokeAllActive revokes every non-expired, non-revoked token owned
	// by the account and returns the affected records. Idempotent: a
	// second call finds nothing to revoke and returns an empty slice.
	RevokeAllActive(ctx context.Context, accountID int64, now time.Time) ([]*models.AccessToken, error)
}
