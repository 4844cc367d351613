// Package accounts declares the repository contract for account records.
package accounts

import (
	"context"

	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/status"
)

// Repository provides durable account storage. Uniqueness of display name
// (case/normalization-insensitive) and email (case-insensitive) is enforced
// by the schema; implementations surface violations as errors.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// FindExact looks up a single account whose email equals the trimmed
	// identifier or whose display name equals it verbatim.
	FindExact(ctx context.Context, identifier string) (*models.Account, error)

	// FindNormalized returns every account matching the identifier
	// case-insensitively on email or case/NFKC-insensitively on display
	// name. Callers decide what to do with multiple matches.
	FindNormalized(ctx context.Context, identifier string) ([]*models.Account, error)

	// Update persists the mutable profile fields and the derived home tile.
	Update(ctx context.Context, account *models.Account) error

	UpdateStatus(ctx context.Context, id int64, s status.Status) error
	UpdateCredentials(ctx context.Context, id int64, hash, salt string) error

	// ScrubPersonalData blanks the personal fields of an account, setting
	// the display name to placeholderName. Idempotent: re-running it on an
	// already-scrubbed account only re-sets already-scrubbed fields.
	ScrubPersonalData(ctx context.Context, id int64, placeholderName string) error
}
