// Package services contains server-side business logic. This file implements
// AccountService, the facade the web layer calls for authentication, saves,
// status transitions, and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/dbx"
	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/password"
	"github.com/openatlas/openatlas/internal/server/quadtile"
	"github.com/openatlas/openatlas/internal/server/repositories/repomanager"
	"github.com/openatlas/openatlas/internal/server/spam"
	"github.com/openatlas/openatlas/internal/server/status"
)

// AvatarPurger schedules removal of a stored avatar object. Implementations
// must not block and must tolerate repeated calls for the same key.
type AvatarPurger interface {
	PurgeLater(key string)
}

// AuthenticateOptions loosens the status eligibility rules for login flows
// that legitimately need to reach not-yet-active or suspended accounts
// (e-mail confirmation, appeal handling).
type AuthenticateOptions struct {
	AllowPending   bool
	AllowSuspended bool
}

// AccountService provides the public account operations:
//   - Authenticate: resolve credentials to an account
//   - Save: persist profile changes, recompute the home tile, run the spam check
//   - Transition / SoftDestroy: status changes
//   - deletion window, token revocation, and personal-data purge
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cfg         *config.Config
	logger      logging.Logger
	scorer      *spam.Scorer
	avatars     AvatarPurger
	revocations RevocationStore // may be nil
	now         func() time.Time
}

// NewAccountService constructs an AccountService. revocations may be nil
// when no revoked-token cache is configured.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	logger logging.Logger, scorer *spam.Scorer, avatars AvatarPurger, revocations RevocationStore) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		cfg:         cfg,
		logger:      logger,
		scorer:      scorer,
		avatars:     avatars,
		revocations: revocations,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock; for tests.
func (s *AccountService) SetNow(now func() time.Time) { s.now = now }

// Register creates a new account in the initial status with a freshly
// derived credential.
func (s *AccountService) Register(ctx context.Context, email, displayName, plaintext string) (*models.Account, error) {
	hash, salt, err := password.Create(plaintext)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{Email: email, DisplayName: displayName, PassCrypt: hash, PassSalt: salt}
	repo := s.repomanager.Accounts(s.db)
	account, err = repo.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// Get loads an account by id.
func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

// Authenticate resolves an identifier (email or display name) and password
// to an account. The lookup tries an exact match first; failing that, a
// case/NFKC-normalization-insensitive match is accepted only when exactly
// one account matches. Every failure (unknown identifier, ambiguous match,
// wrong password, ineligible status) yields the same ErrorUnauthorized so
// callers cannot probe for account existence.
func (s *AccountService) Authenticate(ctx context.Context, identifier, plaintext string, opts AuthenticateOptions) (*models.Account, error) {
	account, err := s.lookupCandidate(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAmbiguousCredential) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !password.Check(account.PassCrypt, account.PassSalt, plaintext) {
		return nil, common.ErrorUnauthorized
	}

	if password.NeedsUpgrade(account.PassCrypt, account.PassSalt) {
		s.upgradeCredential(ctx, account, plaintext)
	}

	switch {
	case account.Status == status.Deleted:
		return nil, common.ErrorUnauthorized
	case account.Status == status.Pending && !opts.AllowPending:
		return nil, common.ErrorUnauthorized
	case account.Status == status.Suspended && !opts.AllowSuspended:
		return nil, common.ErrorUnauthorized
	}

	return account, nil
}

func (s *AccountService) lookupCandidate(ctx context.Context, identifier string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindExact(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	matches, err := repo.FindNormalized(ctx, identifier)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, common.ErrorNotFound
	case 1:
		return matches[0], nil
	default:
		// deliberately no pick-first fallback
		s.logger.Warn(ctx, "ambiguous credential lookup", "matches", len(matches))
		return nil, common.ErrorAmbiguousCredential
	}
}

// upgradeCredential re-hashes a legacy credential after a successful check.
// Failure to persist only delays the upgrade until the next login.
func (s *AccountService) upgradeCredential(ctx context.Context, account *models.Account, plaintext string) {
	hash, salt, err := password.Create(plaintext)
	if err != nil {
		s.logger.Warn(ctx, "credential upgrade failed", "account_id", account.ID, "error", err.Error())
		return
	}
	if err := s.repomanager.Accounts(s.db).UpdateCredentials(ctx, account.ID, hash, salt); err != nil {
		s.logger.Warn(ctx, "credential upgrade failed", "account_id", account.ID, "error", err.Error())
		return
	}
	account.PassCrypt = hash
	account.PassSalt = salt
}

// Save persists the account's mutable fields, recomputing the home tile
// when both coordinates are present, and then runs the spam check, which
// may suspend the account.
func (s *AccountService) Save(ctx context.Context, account *models.Account) error {
	if account.HomeLocation() {
		tile := quadtile.TileForPoint(*account.HomeLat, *account.HomeLon)
		account.HomeTile = &tile
	}

	if err := s.repomanager.Accounts(s.db).Update(ctx, account); err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}

	return s.spamCheck(ctx, account)
}

func (s *AccountService) spamCheck(ctx context.Context, account *models.Account) error {
	suspend, err := s.scorer.ShouldSuspend(ctx, account)
	if err != nil {
		return fmt.Errorf("spam check: %w", err)
	}
	if !suspend {
		return nil
	}

	s.logger.Info(ctx, "suspending account after spam check", "account_id", account.ID)
	return s.Transition(ctx, account, status.EventSuspend)
}

// Transition applies a status event to the account. Illegal events fail
// with *status.IllegalTransitionError and change nothing. The soft-destroy
// event is routed through SoftDestroy so its side effects always run.
func (s *AccountService) Transition(ctx context.Context, account *models.Account, event status.Event) error {
	if event == status.EventSoftDestroy {
		return s.SoftDestroy(ctx, account)
	}

	next, err := status.Next(account.Status, event)
	if err != nil {
		return err
	}

	if err := s.repomanager.Accounts(s.db).UpdateStatus(ctx, account.ID, next); err != nil {
		return fmt.Errorf("error updating status: %w", err)
	}
	account.Status = next
	return nil
}

// SoftDestroy marks the account deleted and removes its personal data. The
// token revocation, data scrub, and status write happen in one transaction:
// either all three are visible afterwards or none is. The avatar object
// removal is scheduled after commit and never blocks the transition.
func (s *AccountService) SoftDestroy(ctx context.Context, account *models.Account) error {
	next, err := status.Next(account.Status, status.EventSoftDestroy)
	if err != nil {
		return err
	}

	placeholder := fmt.Sprintf("user_%d", account.ID)
	var avatarKey string
	if account.AvatarKey != nil {
		avatarKey = *account.AvatarKey
	}

	var revoked []*models.AccessToken
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		revoked, err = s.repomanager.AccessTokens(tx).RevokeAllActive(ctx, account.ID, s.now())
		if err != nil {
			return fmt.Errorf("revoking tokens: %w", err)
		}

		accounts := s.repomanager.Accounts(tx)
		if err := accounts.ScrubPersonalData(ctx, account.ID, placeholder); err != nil {
			return fmt.Errorf("scrubbing personal data: %w", err)
		}
		return accounts.UpdateStatus(ctx, account.ID, next)
	})
	if err != nil {
		return err
	}

	s.flagRevoked(ctx, revoked)
	s.avatars.PurgeLater(avatarKey)
	scrubSnapshot(account, placeholder)
	account.Status = next

	s.logger.Info(ctx, "account soft-destroyed", "account_id", account.ID, "tokens_revoked", len(revoked))
	return nil
}

// RevokeAuthenticationTokens revokes every non-expired token owned by the
// account. Idempotent: already revoked tokens are untouched.
func (s *AccountService) RevokeAuthenticationTokens(ctx context.Context, account *models.Account) error {
	revoked, err := s.repomanager.AccessTokens(s.db).RevokeAllActive(ctx, account.ID, s.now())
	if err != nil {
		return fmt.Errorf("revoking tokens: %w", err)
	}
	s.flagRevoked(ctx, revoked)
	return nil
}

// RemovePersonalData purges the personal fields of the account, leaving the
// row (and its contribution history) behind, and schedules removal of the
// stored avatar. Idempotent.
func (s *AccountService) RemovePersonalData(ctx context.Context, account *models.Account) error {
	placeholder := fmt.Sprintf("user_%d", account.ID)
	var avatarKey string
	if account.AvatarKey != nil {
		avatarKey = *account.AvatarKey
	}

	if err := s.repomanager.Accounts(s.db).ScrubPersonalData(ctx, account.ID, placeholder); err != nil {
		return fmt.Errorf("scrubbing personal data: %w", err)
	}

	s.avatars.PurgeLater(avatarKey)
	scrubSnapshot(account, placeholder)
	return nil
}

// DeletionAllowedAt returns the earliest time at which the account may
// delete itself. With no configured delay this is the creation time; with a
// delay it is the closing time of the most recently closed changeset (or
// the creation time when there is none) plus the delay.
func (s *AccountService) DeletionAllowedAt(ctx context.Context, account *models.Account) (time.Time, error) {
	if s.cfg.AccountDeletionDelay > 0 {
		last, err := s.repomanager.Changesets(s.db).LastClosedAt(ctx, account.ID)
		if err != nil {
			return time.Time{}, fmt.Errorf("finding last closed changeset: %w", err)
		}
		if last != nil {
			return last.UTC().Add(s.cfg.AccountDeletionDelay), nil
		}
	}
	return account.CreationTime.UTC(), nil
}

// DeletionAllowed reports whether the deletion window has opened.
func (s *AccountService) DeletionAllowed(ctx context.Context, account *models.Account) (bool, error) {
	at, err := s.DeletionAllowedAt(ctx, account)
	if err != nil {
		return false, err
	}
	return !s.now().Before(at), nil
}

func (s *AccountService) flagRevoked(ctx context.Context, revoked []*models.AccessToken) {
	if s.revocations == nil {
		return
	}
	for _, t := range revoked {
		if err := s.revocations.MarkRevoked(ctx, t.ID, t.ExpiresAt); err != nil {
			// the DB row is already revoked; the cache miss only costs a lookup
			s.logger.Warn(ctx, "revocation cache update failed", "token_id", t.ID, "error", err.Error())
		}
	}
}

func scrubSnapshot(account *models.Account, placeholder string) {
	account.DisplayName = placeholder
	account.Description = ""
	account.HomeLat = nil
	account.HomeLon = nil
	account.HomeTile = nil
	account.EmailValid = false
	account.NewEmail = nil
	account.AuthProvider = nil
	account.AuthUID = nil
	account.AvatarKey = nil
}
