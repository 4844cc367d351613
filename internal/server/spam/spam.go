// Package spam computes the heuristic spam score that drives automatic
// account suspension.
//
// The formula mixes additive signals (description text, recent diary
// activity, spam reports) and subtractive signals (changesets and traces,
// which indicate trusted contribution). The constants are hand-tuned policy
// inherited from years of production moderation; the score is unbounded in
// both directions on purpose.
package spam

import (
	"context"
	"fmt"
	"time"

	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/repositories/diary"
	"github.com/openatlas/openatlas/internal/server/repositories/issues"
	"github.com/openatlas/openatlas/internal/server/status"
)

// TextScorer assigns a non-negative spam sub-score to a piece of free text.
// It is treated as an opaque scoring function.
type TextScorer interface {
	Score(text string) int
}

// Scorer computes spam scores from an account snapshot plus its diary and
// report history.
type Scorer struct {
	cfg    *config.Config
	diary  diary.Repository
	issues issues.Repository
	text   TextScorer
	now    func() time.Time
}

func NewScorer(cfg *config.Config, diaryRepo diary.Repository, issueRepo issues.Repository, text TextScorer) *Scorer {
	return &Scorer{
		cfg:    cfg,
		diary:  diaryRepo,
		issues: issueRepo,
		text:   text,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock; for tests.
func (s *Scorer) SetNow(now func() time.Time) { s.now = now }

// Score returns the spam score for an account. Positive means spammier;
// heavy contributors routinely score far below zero.
func (s *Scorer) Score(ctx context.Context, account *models.Account) (int, error) {
	entryBodies, err := s.diary.VisibleEntryBodies(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("loading diary entries: %w", err)
	}
	commentBodies, err := s.diary.VisibleCommentBodies(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("loading diary comments: %w", err)
	}
	recentEntries, err := s.diary.VisibleEntryCountSince(ctx, account.ID, s.now().Add(-24*time.Hour))
	if err != nil {
		return 0, fmt.Errorf("counting recent diary entries: %w", err)
	}
	reporters, err := s.issues.DistinctOpenSpamReporters(ctx, account.ID)
	if err != nil {
		return 0, fmt.Errorf("counting spam reporters: %w", err)
	}

	changesetScore := account.ChangesetsCount * 50
	traceScore := account.TracesCount * 50

	score := float64(s.text.Score(account.Description)) / 4.0
	score += float64(recentEntries * 10)
	score += float64(averageScore(s.text, entryBodies))
	score += float64(averageScore(s.text, commentBodies))
	score += float64(reporters * 20)
	score -= float64(changesetScore)
	score -= float64(traceScore)

	return int(score), nil
}

// ShouldSuspend reports whether the account's status allows the suspend
// transition and its score exceeds the configured threshold.
func (s *Scorer) ShouldSuspend(ctx context.Context, account *models.Account) (bool, error) {
	if !status.CanApply(account.Status, status.EventSuspend) {
		return false, nil
	}
	score, err := s.Score(ctx, account)
	if err != nil {
		return false, err
	}
	return score > s.cfg.SpamThreshold, nil
}

// averageScore is the truncating mean of per-text sub-scores; 0 when there
// are no texts.
func averageScore(text TextScorer, bodies []string) int {
	if len(bodies) == 0 {
		return 0
	}
	sum := 0
	for _, body := range bodies {
		sum += text.Score(body)
	}
	return sum / len(bodies)
}
