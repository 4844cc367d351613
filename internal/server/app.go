// Package server initializes and runs the OpenAtlas account server. It opens
// the database, runs migrations, wires the services, and serves the HTTP API
// with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/openatlas/openatlas/internal/logging"
	"github.com/openatlas/openatlas/internal/server/avatars"
	"github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/server/ratelimit"
	"github.com/openatlas/openatlas/internal/server/repositories/repomanager"
	"github.com/openatlas/openatlas/internal/server/services"
	"github.com/openatlas/openatlas/internal/server/spam"
	"github.com/openatlas/openatlas/internal/server/tokencache"
	"github.com/openatlas/openatlas/internal/server/web"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	web    *web.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	var revocations services.RevocationStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		revocations = tokencache.NewRedisRevocationStore(client)
	}

	scorer := spam.NewScorer(cfg, manager.Diary(db), manager.Issues(db), spam.NewLinkDensityScorer())
	purger := avatars.NewPurger(cfg, logger)
	limiter := ratelimit.NewLimiter(cfg, manager.Activity(db), manager.Changesets(db), manager.Issues(db))

	accounts := services.NewAccountService(db, manager, cfg, logger, scorer, purger, revocations)
	tokens := services.NewTokenService(db, manager, revocations,
		[]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration, logger)

	ws := web.NewServer(db, accounts, tokens, limiter, logger)

	return &App{config: cfg, logger: logger, db: db, web: ws}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP API until ctx is cancelled or a termination signal
// arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.web.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			app.logger.Error(ctx, "http server error", "error", err.Error())
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "app stopped")
}
