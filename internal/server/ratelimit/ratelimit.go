// Package ratelimit computes per-account hourly quotas for messages,
// follows, and changeset comments.
//
// All three quotas are recomputed on demand from read-committed snapshots
// and must be treated as advisory point-in-time values: a concurrent action
// landing between the check and the insert can overshoot by a small margin,
// which is accepted. Quotas grow with account age and recent inbound
// activity and shrink with active moderation reports.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/repositories/activity"
	"github.com/openatlas/openatlas/internal/server/repositories/changesets"
	"github.com/openatlas/openatlas/internal/server/repositories/issues"
)

type Limiter struct {
	cfg        *config.Config
	activity   activity.Repository
	changesets changesets.Repository
	issues     issues.Repository
	now        func() time.Time
}

func NewLimiter(cfg *config.Config, activityRepo activity.Repository, changesetRepo changesets.Repository, issueRepo issues.Repository) *Limiter {
	return &Limiter{
		cfg:        cfg,
		activity:   activityRepo,
		changesets: changesetRepo,
		issues:     issueRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock; for tests.
func (l *Limiter) SetNow(now func() time.Time) { l.now = now }

// MessagesPerHour returns how many messages the account may send in the
// current hour: ceil(account age in hours) plus messages received in the
// last rolling hour, minus ten per active report, clamped to
// [0, MaxMessagesPerHour].
func (l *Limiter) MessagesPerHour(ctx context.Context, account *models.Account) (int, error) {
	now := l.now()

	recent, err := l.activity.MessagesReceivedSince(ctx, account.ID, now.Add(-time.Hour))
	if err != nil {
		return 0, fmt.Errorf("counting recent messages: %w", err)
	}
	active, err := l.issues.ActiveReportCount(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("counting active reports: %w", err)
	}

	max := ageInHoursCeil(account.CreationTime, now) + recent - active*10
	return clamp(max, 0, l.cfg.MaxMessagesPerHour), nil
}

// FollowsPerHour returns how many follow edges the account may create in
// the current hour, using the same shape as MessagesPerHour but counting
// inbound follows.
func (l *Limiter) FollowsPerHour(ctx context.Context, account *models.Account) (int, error) {
	now := l.now()

	recent, err := l.activity.FollowsReceivedSince(ctx, account.ID, now.Add(-time.Hour))
	if err != nil {
		return 0, fmt.Errorf("counting recent follows: %w", err)
	}
	active, err := l.issues.ActiveReportCount(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("counting active reports: %w", err)
	}

	max := ageInHoursCeil(account.CreationTime, now) + recent - active*10
	return clamp(max, 0, l.cfg.MaxFollowsPerHour), nil
}

// ChangesetCommentsPerHour returns the comment quota. Moderators get a
// fixed generous allowance. Everyone else earns quota proportional to their
// recent comment history (capped at CommentsToMaxChangesetComments), which
// is then halved once per active report.
func (l *Limiter) ChangesetCommentsPerHour(ctx context.Context, account *models.Account) (int, error) {
	if account.Moderator() {
		return l.cfg.ModeratorChangesetCommentsPerHour, nil
	}

	previous, err := l.changesets.RecentCommentCount(ctx, account.ID, l.cfg.CommentsToMaxChangesetComments)
	if err != nil {
		return 0, fmt.Errorf("counting recent changeset comments: %w", err)
	}
	active, err := l.issues.ActiveReportCount(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("counting active reports: %w", err)
	}

	ratio := float64(previous) / float64(l.cfg.CommentsToMaxChangesetComments)
	max := int(math.Floor(ratio * float64(l.cfg.MaxChangesetCommentsPerHour)))
	max = clamp(max, l.cfg.InitialChangesetCommentsPerHour, l.cfg.MaxChangesetCommentsPerHour)

	for i := 0; i < active; i++ {
		max /= 2
	}
	return clamp(max, l.cfg.MinChangesetCommentsPerHour, l.cfg.MaxChangesetCommentsPerHour), nil
}

func ageInHoursCeil(creation, now time.Time) int {
	return int(math.Ceil(now.Sub(creation).Hours()))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
