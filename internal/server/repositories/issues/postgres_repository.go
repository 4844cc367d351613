package issues

import (
	"context"
	"fmt"

	"github.com/openatlas/openatlas/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ActiveReportCount(ctx context.Context, accountID int64) (int, error) {
	query :=
		`SELECT COUNT(*) FROM issues i
		 WHERE i.reported_account_id = $1 AND i.status = 'open'
		   AND EXISTS (
		     SELECT 1 FROM reports r
		     WHERE r.issue_id = i.id
		       AND r.updated_at >= COALESCE(i.resolved_at, 'epoch')
		   )
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) DistinctOpenSpamReporters(ctx context.Context, accountID int64) (int, error) {
	query :=
		`SELECT COUNT(DISTINCT r.reporter_id) FROM reports r
		 JOIN issues i ON i.id = r.issue_id
		 WHERE i.reported_account_id = $1 AND i.status = 'open' AND r.category = 'spam'
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
