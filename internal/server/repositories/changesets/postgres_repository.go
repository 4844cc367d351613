package changesets

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) LastClosedAt(ctx context.Context, accountID int64) (*time.Time, error) {
	query :=
		`SELECT closed_at FROM changesets
		 WHERE account_id = $1 AND closed_at IS NOT NULL
		 ORDER BY closed_at DESC
		 LIMIT 1
		 `

	var closedAt time.Time
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&closedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &closedAt, nil
}

func (r *PostgresRepository) RecentCommentCount(ctx context.Context, authorID int64, limit int) (int, error) {
	query :=
		`SELECT COUNT(*) FROM (
		   SELECT id FROM changeset_comments
		   WHERE author_id = $1
		   ORDER BY created_at DESC
		   LIMIT $2
		 ) recent
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, authorID, limit).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
