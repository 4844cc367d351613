package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/auth"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/repositories/repomanager"
)

// RevocationStore caches revoked token ids so validation does not hit the
// database on every request. The database remains authoritative.
type RevocationStore interface {
	MarkRevoked(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenService issues, validates, and revokes access tokens. Each token is
// an HS256 JWT whose id (jti) keys a database row holding the revocation
// state.
type TokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	revocations RevocationStore // may be nil
	secretKey   []byte
	validity    time.Duration
	logger      logging.Logger
	now         func() time.Time
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, revocations RevocationStore,
	secretKey []byte, validity time.Duration, logger logging.Logger) *TokenService {
	return &TokenService{
		db:          db,
		repomanager: m,
		revocations: revocations,
		secretKey:   secretKey,
		validity:    validity,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetNow overrides the clock; for tests.
func (s *TokenService) SetNow(now func() time.Time) { s.now = now }

// Issue mints a signed token for the account and records it.
func (s *TokenService) Issue(ctx context.Context, account *models.Account) (string, error) {
	tokenString, tokenID, err := auth.GenerateToken(account.ID, s.secretKey, s.validity)
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}

	token := &models.AccessToken{
		ID:        tokenID,
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.validity),
	}
	if err := s.repomanager.AccessTokens(s.db).Create(ctx, token); err != nil {
		return "", fmt.Errorf("storing token: %w", err)
	}

	return tokenString, nil
}

// Validate checks the token's signature and then its stored state, and
// returns the owning account id. The revocation cache is consulted first;
// a cache error falls through to the database.
func (s *TokenService) Validate(ctx context.Context, tokenString string) (int64, error) {
	claims, err := auth.ParseToken(tokenString, s.secretKey)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn(ctx, "revocation cache lookup failed", "token_id", claims.ID, "error", err.Error())
		} else if revoked {
			return 0, common.ErrTokenRevoked
		}
	}

	token, err := s.repomanager.AccessTokens(s.db).Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrInvalidToken
		}
		return 0, common.ErrorInternal
	}

	if token.Revoked() {
		return 0, common.ErrTokenRevoked
	}
	if token.Expired(s.now()) {
		return 0, common.ErrTokenExpired
	}

	return token.AccountID, nil
}

// Revoke invalidates the token. Revoking an already revoked or unknown
// token is not an error.
func (s *TokenService) Revoke(ctx context.Context, tokenString string) error {
	claims, err := auth.ParseToken(tokenString, s.secretKey)
	if err != nil {
		return common.ErrInvalidToken
	}

	if err := s.repomanager.AccessTokens(s.db).Revoke(ctx, claims.ID, s.now()); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("revoking token: %w", err)
		}
	}

	if s.revocations != nil {
		expiresAt := s.now().Add(s.validity)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		if err := s.revocations.MarkRevoked(ctx, claims.ID, expiresAt); err != nil {
			s.logger.Warn(ctx, "revocation cache update failed", "token_id", claims.ID, "error", err.Error())
		}
	}

	return nil
}
