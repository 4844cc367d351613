package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
)

// --- fakes ---

type fakeActivityRepo struct {
	messages int
	follows  int
}

func (f *fakeActivityRepo) MessagesReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	return f.messages, nil
}

func (f *fakeActivityRepo) FollowsReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	return f.follows, nil
}

type fakeChangesetsRepo struct {
	lastClosed     *time.Time
	recentComments int
}

func (f *fakeChangesetsRepo) LastClosedAt(ctx context.Context, accountID int64) (*time.Time, error) {
	return f.lastClosed, nil
}

func (f *fakeChangesetsRepo) RecentCommentCount(ctx context.Context, authorID int64, limit int) (int, error) {
	if f.recentComments > limit {
		return limit, nil
	}
	return f.recentComments, nil
}

type fakeIssuesRepo struct {
	activeReports int
}

func (f *fakeIssuesRepo) ActiveReportCount(ctx context.Context, accountID int64) (int, error) {
	return f.activeReports, nil
}

func (f *fakeIssuesRepo) DistinctOpenSpamReporters(ctx context.Context, accountID int64) (int, error) {
	return 0, nil
}

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestLimiter(activity *fakeActivityRepo, changesets *fakeChangesetsRepo, issues *fakeIssuesRepo) *Limiter {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	l := NewLimiter(cfg, activity, changesets, issues)
	l.SetNow(func() time.Time { return testNow })
	return l
}

func accountAgedHours(h int) *models.Account {
	return &models.Account{ID: 1, CreationTime: testNow.Add(-time.Duration(h) * time.Hour)}
}

func TestMessagesPerHour(t *testing.T) {
	tests := []struct {
		name    string
		ageH    int
		recent  int
		reports int
		want    int
	}{
		{"grows with age", 10, 0, 0, 10},
		{"inbound raises quota", 10, 5, 0, 15},
		{"reports cost ten each", 10, 5, 1, 5},
		{"clamped to zero", 2, 0, 1, 0},
		{"clamped to max", 500, 0, 0, 60},
		{"brand new account", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLimiter(
				&fakeActivityRepo{messages: tt.recent},
				&fakeChangesetsRepo{},
				&fakeIssuesRepo{activeReports: tt.reports},
			)

			got, err := l.MessagesPerHour(context.Background(), accountAgedHours(tt.ageH))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessagesPerHour_PartialHourRoundsUp(t *testing.T) {
	l := newTestLimiter(&fakeActivityRepo{}, &fakeChangesetsRepo{}, &fakeIssuesRepo{})

	account := &models.Account{ID: 1, CreationTime: testNow.Add(-90 * time.Minute)}
	got, err := l.MessagesPerHour(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestFollowsPerHour(t *testing.T) {
	l := newTestLimiter(
		&fakeActivityRepo{follows: 3},
		&fakeChangesetsRepo{},
		&fakeIssuesRepo{activeReports: 1},
	)

	// 24 + 3 - 10 = 17
	got, err := l.FollowsPerHour(context.Background(), accountAgedHours(24))
	require.NoError(t, err)
	assert.Equal(t, 17, got)
}

func TestChangesetCommentsPerHour(t *testing.T) {
	tests := []struct {
		name    string
		recent  int
		reports int
		want    int
	}{
		{"no history gets initial", 0, 0, 6},
		{"half history", 100, 0, 30},
		{"full history gets max", 200, 0, 60},
		{"history beyond cap still max", 5000, 0, 60},
		{"one report halves", 100, 1, 15},
		{"three reports keep halving", 200, 3, 7},
		{"halving clamps to minimum", 0, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLimiter(
				&fakeActivityRepo{},
				&fakeChangesetsRepo{recentComments: tt.recent},
				&fakeIssuesRepo{activeReports: tt.reports},
			)

			got, err := l.ChangesetCommentsPerHour(context.Background(), accountAgedHours(100))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangesetCommentsPerHour_Moderator(t *testing.T) {
	l := newTestLimiter(
		&fakeActivityRepo{},
		&fakeChangesetsRepo{},
		&fakeIssuesRepo{activeReports: 5},
	)

	account := accountAgedHours(1)
	account.Roles = map[string]struct{}{"moderator": {}}

	got, err := l.ChangesetCommentsPerHour(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 36000, got)
}

// More active reports can never raise a quota.
func TestQuotasMonotonicInReports(t *testing.T) {
	prev := int(^uint(0) >> 1)
	for reports := 0; reports <= 5; reports++ {
		l := newTestLimiter(
			&fakeActivityRepo{messages: 10},
			&fakeChangesetsRepo{recentComments: 150},
			&fakeIssuesRepo{activeReports: reports},
		)

		got, err := l.MessagesPerHour(context.Background(), accountAgedHours(48))
		require.NoError(t, err)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}
