// Package diary declares the read-side repository contract over diary
// entries and comments, as consumed by the spam scorer.
package diary

import (
	"context"
	"time"
)

type Repository interface {
	// VisibleEntryBodies returns the bodies of all visible diary entries
	// written by the account.
	VisibleEntryBodies(ctx context.Context, accountID int64) ([]string, error)

	// VisibleCommentBodies returns the bodies of all visible diary
	// comments written by the account.
	VisibleCommentBodies(ctx context.Context, accountID int64) ([]string, error)

	// VisibleEntryCountSince counts visible diary entries created by the
	// account since the given instant.
	VisibleEntryCountSince(ctx context.Context, accountID int64, since time.Time) (int, error)
}
