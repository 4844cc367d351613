package repomanager

import (
	"context"
	"database/sql"

	"github.com/openatlas/openatlas/internal/dbx"
	"github.com/openatlas/openatlas/internal/server/migrations"
	"github.com/openatlas/openatlas/internal/server/repositories/accesstokens"
	"github.com/openatlas/openatlas/internal/server/repositories/accounts"
	"github.com/openatlas/openatlas/internal/server/repositories/activity"
	"github.com/openatlas/openatlas/internal/server/repositories/changesets"
	"github.com/openatlas/openatlas/internal/server/repositories/diary"
	"github.com/openatlas/openatlas/internal/server/repositories/issues"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AccessTokens(db dbx.DBTX) accesstokens.Repository {
	return accesstokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Issues(db dbx.DBTX) issues.Repository {
	return issues.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Changesets(db dbx.DBTX) changesets.Repository {
	return changesets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Activity(db dbx.DBTX) activity.Repository {
	return activity.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Diary(db dbx.DBTX) diary.Repository {
	return diary.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
