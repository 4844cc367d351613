package accesstokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/dbx"
	"github.com/openatlas/openatlas/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *models.AccessToken) error {
	query :=
		`INSERT INTO access_tokens (id, account_id, expires_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, token.ID, token.AccountID, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.AccessToken, error) {
	query :=
		`SELECT id, account_id, expires_at, revoked_at, created_at FROM access_tokens
		 WHERE id = $1
		 `

	token := &models.AccessToken{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&token.ID, &token.AccountID, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return token, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, id string, now time.Time) error {
	query :=
		`UPDATE access_tokens SET revoked_at = $2
		 WHERE id = $1 AND revoked_at IS NULL
		 `

	_, err := r.db.ExecContext(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeAllActive(ctx context.Context, accountID int64, now time.Time) ([]*models.AccessToken, error) {
	query :=
		`UPDATE access_tokens SET revoked_at = $2
		 WHERE account_id = $1 AND revoked_at IS NULL AND expires_at > $2
		 RETURNING id, account_id, expires_at, revoked_at, created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.AccessToken
	for rows.Next() {
		token := &models.AccessToken{}
		if err := rows.Scan(&token.ID, &token.AccountID, &token.ExpiresAt, &token.RevokedAt, &token.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
