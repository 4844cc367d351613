package spam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/status"
)

// --- fakes ---

type fakeDiaryRepo struct {
	entryBodies   []string
	commentBodies []string
	recentEntries int
	err           error
}

func (f *fakeDiaryRepo) VisibleEntryBodies(ctx context.Context, accountID int64) ([]string, error) {
	return f.entryBodies, f.err
}

func (f *fakeDiaryRepo) VisibleCommentBodies(ctx context.Context, accountID int64) ([]string, error) {
	return f.commentBodies, f.err
}

func (f *fakeDiaryRepo) VisibleEntryCountSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	return f.recentEntries, f.err
}

type fakeIssuesRepo struct {
	activeReports int
	spamReporters int
	err           error
}

func (f *fakeIssuesRepo) ActiveReportCount(ctx context.Context, accountID int64) (int, error) {
	return f.activeReports, f.err
}

func (f *fakeIssuesRepo) DistinctOpenSpamReporters(ctx context.Context, accountID int64) (int, error) {
	return f.spamReporters, f.err
}

// fixedTextScorer returns a preset score per text, 0 for unknown texts.
type fixedTextScorer struct {
	scores map[string]int
}

func (f *fixedTextScorer) Score(text string) int { return f.scores[text] }

func newTestScorer(diary *fakeDiaryRepo, issues *fakeIssuesRepo, text TextScorer) *Scorer {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	s := NewScorer(cfg, diary, issues, text)
	s.SetNow(func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) })
	return s
}

func TestScore_CleanAccount(t *testing.T) {
	s := newTestScorer(&fakeDiaryRepo{}, &fakeIssuesRepo{}, &fixedTextScorer{})

	score, err := s.Score(context.Background(), &models.Account{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestScore_Formula(t *testing.T) {
	diary := &fakeDiaryRepo{
		entryBodies:   []string{"e1", "e2"},
		commentBodies: []string{"c1"},
		recentEntries: 3,
	}
	issues := &fakeIssuesRepo{spamReporters: 2}
	text := &fixedTextScorer{scores: map[string]int{
		"buy cheap pills": 90,
		"e1":              40,
		"e2":              21,
		"c1":              8,
	}}
	s := newTestScorer(diary, issues, text)

	account := &models.Account{ID: 1, Description: "buy cheap pills"}

	// 90/4 + 3*10 + (40+21)/2 + 8 + 2*20 = 22.5 + 30 + 30 + 8 + 40 = 130.5 -> 130
	score, err := s.Score(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, 130, score)
}

func TestScore_ContributionOffset(t *testing.T) {
	text := &fixedTextScorer{scores: map[string]int{"spammy": 200}}
	s := newTestScorer(&fakeDiaryRepo{}, &fakeIssuesRepo{}, text)

	account := &models.Account{
		ID:              1,
		Description:     "spammy",
		ChangesetsCount: 2,
		TracesCount:     1,
	}

	// 200/4 - 2*50 - 1*50 = 50 - 150 = -100
	score, err := s.Score(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, -100, score)
}

func TestScore_AverageTruncates(t *testing.T) {
	diary := &fakeDiaryRepo{entryBodies: []string{"a", "b", "c"}}
	text := &fixedTextScorer{scores: map[string]int{"a": 10, "b": 10, "c": 9}}
	s := newTestScorer(diary, &fakeIssuesRepo{}, text)

	// (10+10+9)/3 = 9 with integer division
	score, err := s.Score(context.Background(), &models.Account{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, 9, score)
}

func TestScore_RepoError(t *testing.T) {
	diary := &fakeDiaryRepo{err: errors.New("boom")}
	s := newTestScorer(diary, &fakeIssuesRepo{}, &fixedTextScorer{})

	_, err := s.Score(context.Background(), &models.Account{ID: 1})
	require.Error(t, err)
}

func TestShouldSuspend(t *testing.T) {
	text := &fixedTextScorer{scores: map[string]int{"spammy": 400}}

	tests := []struct {
		name    string
		status  status.Status
		desc    string
		suspend bool
	}{
		{"active above threshold", status.Active, "spammy", true},
		{"pending above threshold", status.Pending, "spammy", true},
		{"active below threshold", status.Active, "", false},
		{"confirmed is exempt", status.Confirmed, "spammy", false},
		{"deleted is exempt", status.Deleted, "spammy", false},
		{"already suspended", status.Suspended, "spammy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScorer(&fakeDiaryRepo{}, &fakeIssuesRepo{}, text)
			account := &models.Account{ID: 1, Status: tt.status, Description: tt.desc}

			got, err := s.ShouldSuspend(context.Background(), account)
			require.NoError(t, err)
			assert.Equal(t, tt.suspend, got)
		})
	}
}

// A score exactly at the threshold must not suspend.
func TestShouldSuspend_ThresholdIsExclusive(t *testing.T) {
	text := &fixedTextScorer{scores: map[string]int{"edge": 200}} // 200/4 = 50
	s := newTestScorer(&fakeDiaryRepo{}, &fakeIssuesRepo{}, text)

	got, err := s.ShouldSuspend(context.Background(), &models.Account{ID: 1, Status: status.Active, Description: "edge"})
	require.NoError(t, err)
	assert.False(t, got)
}
