package activity

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

func (r *PostgresRepository) MessagesReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM messages
		 WHERE to_account_id = $1 AND to_visible AND NOT muted AND sent_on >= $2
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) FollowsReceivedSince(ctx context.Context, accountID int64, since time.Time) (int, error) {
	query :=
		`SELECT COUNT(*) FROM follows
		 WHERE following_id = $1 AND created_at >= $2
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
