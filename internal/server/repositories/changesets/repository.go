// Package changesets declares the repository contract over changesets and
// their discussion comments, as consumed by the deletion window and the
// comment rate limiter.
package changesets

import (
	"context"
	"time"
)

type Repository interface {
	// LastClosedAt returns the closing time of the account's most recently
	// closed changeset, or nil when the account has none.
	LastClosedAt(ctx context.Context, accountID int64) (*time.Time, error)

	// RecentCommentCount counts the account's changeset comments, capped
	// at limit most recent ones. It never reflects more than limit
	// comments regardless of the full history size.
	RecentCommentCount(ctx context.Context, authorID int64, limit int) (int, error)
}
