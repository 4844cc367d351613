// Package activity declares the read-side repository contract over the
// rolling-hour activity counters consumed by the rate limiter. Counts are
// read-committed snapshots; the quotas built on them are advisory.
package activity

import (
	"context"
	"time"
)

type Repository interface {
	// MessagesReceivedSince counts visible, unmuted messages delivered to
	// the account since the given instant.
	MessagesReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error)

	// FollowsReceivedSince counts follow edges targeting the account
	// created since the given instant.
	FollowsReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error)
}
