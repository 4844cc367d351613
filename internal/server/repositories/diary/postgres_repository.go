package diary

import (
	"context"
	"fmt"
	"time"

	"github.com/openatlas/openatlas/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) VisibleEntryBodies(ctx context.Context, accountID int64) ([]string, error) {
	return r.bodies(ctx,
		`SELECT body FROM diary_entries WHERE account_id = $1 AND visible ORDER BY created_at DESC`,
		accountID)
}

func (r *PostgresRepository) VisibleCommentBodies(ctx context.Context, accountID int64) ([]string, error) {
	return r.bodies(ctx,
		`SELECT body FROM diary_comments WHERE account_id = $1 AND visible ORDER BY created_at DESC`,
		accountID)
}

func (r *PostgresRepository) VisibleEntryCountSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM diary_entries
		 WHERE account_id = $1 AND visible AND created_at > $2
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) bodies(ctx context.Context, query string, accountID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
