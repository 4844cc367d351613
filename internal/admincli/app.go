// Package admincli implements the operator command line: account creation
// and the moderation actions that would otherwise require direct SQL. It
// talks to the database directly with the same service layer as the server.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/avatars"
	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/models"
	"github.com/openatlas/openatlas/internal/server/repositories/repomanager"
	"github.com/openatlas/openatlas/internal/server/services"
	"github.com/openatlas/openatlas/internal/server/spam"
	"github.com/openatlas/openatlas/internal/server/status"
)

const usage = `usage: admincli <command> [args]

commands:
  create                      create an account (prompts for details)
  activate|confirm|unconfirm|suspend|unsuspend|hide|unhide <id>
                              apply a status event
  delete <id>                 soft-destroy the account
  purge <id>                  remove personal data without a status change
`

var statusEvents = map[string]status.Event{
	"activate":  status.EventActivate,
	"confirm":   status.EventConfirm,
	"unconfirm": status.EventUnconfirm,
	"suspend":   status.EventSuspend,
	"unsuspend": status.EventUnsuspend,
	"hide":      status.EventHide,
	"unhide":    status.EventUnhide,
}

type App struct {
	db       *sql.DB
	accounts *services.AccountService
}

func NewApp(cfg *config.Config) (*App, error) {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	logger := logging.NewZapLogger(zl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	scorer := spam.NewScorer(cfg, manager.Diary(db), manager.Issues(db), spam.NewLinkDensityScorer())
	purger := avatars.NewPurger(cfg, logger)

	accounts := services.NewAccountService(db, manager, cfg, logger, scorer, purger, nil)

	return &App{db: db, accounts: accounts}, nil
}

func (app *App) Close() error {
	return app.db.Close()
}

// Run dispatches one subcommand.
func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]

	if event, ok := statusEvents[cmd]; ok {
		return app.runTransition(ctx, rest, event)
	}

	switch cmd {
	case "create":
		return app.runCreate(ctx)
	case "delete":
		return app.runTransition(ctx, rest, status.EventSoftDestroy)
	case "purge":
		return app.runPurge(ctx, rest)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (app *App) runCreate(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)

	email, err := getSimpleText(reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(reader, "Display name", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	account, err := app.accounts.Register(ctx, email, displayName, string(pw))
	if err != nil {
		return err
	}

	fmt.Printf("created account %d (%s) in status %s\n", account.ID, account.DisplayName, account.Status)
	return nil
}

func (app *App) runTransition(ctx context.Context, args []string, event status.Event) error {
	account, err := app.loadAccount(ctx, args)
	if err != nil {
		return err
	}

	if err := app.accounts.Transition(ctx, account, event); err != nil {
		return err
	}

	fmt.Printf("account %d is now %s\n", account.ID, account.Status)
	return nil
}

func (app *App) runPurge(ctx context.Context, args []string) error {
	account, err := app.loadAccount(ctx, args)
	if err != nil {
		return err
	}

	if err := app.accounts.RemovePersonalData(ctx, account); err != nil {
		return err
	}

	fmt.Printf("personal data removed from account %d\n", account.ID)
	return nil
}

func (app *App) loadAccount(ctx context.Context, args []string) (*models.Account, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one argument: account id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q", args[0])
	}
	return app.accounts.Get(ctx, id)
}
