// Package repomanager bundles repository constructors behind one interface
// so services can obtain repositories bound either to the shared pool or to
// a transaction handle, and so tests can swap in fakes wholesale.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/openatlas/openatlas/internal/dbx"
	"github.com/openatlas/openatlas/internal/server/repositories/accesstokens"
	"github.com/openatlas/openatlas/internal/server/repositories/accounts"
	"github.com/openatlas/openatlas/internal/server/repositories/activity"
	"github.com/openatlas/openatlas/internal/server/repositories/changesets"
	"github.com/openatlas/openatlas/internal/server/repositories/diary"
	"github.com/openatlas/openatlas/internal/server/repositories/issues"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	AccessTokens(db dbx.DBTX) accesstokens.Repository
	Issues(db dbx.DBTX) issues.Repository
	Changesets(db dbx.DBTX) changesets.Repository
	Activity(db dbx.DBTX) activity.Repository
	Diary(db dbx.DBTX) diary.Repository
}
