// Package issues declares the read-side repository contract over moderation
// issues and their reports, as consumed by the spam scorer and rate limiter.
package issues

import "context"

type Repository interface {
	// ActiveReportCount returns the number of open issues against the
	// account that have at least one report updated at or after the
	// issue's last resolution (or since epoch when never resolved).
	ActiveReportCount(ctx context.Context, accountID int64) (int, error)

	// DistinctOpenSpamReporters returns the number of distinct reporters
	// who filed a spam-category report on an open issue against the
	// account.
	DistinctOpenSpamReporters(ctx context.Context, accountID int64) (int, error)
}
