// Package server wires the authd application together: configuration,
// logging, database, migrations, key material, services and the HTTP
// endpoint, plus graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ppetrovs/authd/internal/dbx"
	"github.com/ppetrovs/authd/internal/logging"
	"github.com/ppetrovs/authd/internal/server/auth"
	"github.com/ppetrovs/authd/internal/server/config"
	"github.com/ppetrovs/authd/internal/server/httpapi"
	"github.com/ppetrovs/authd/internal/server/migrations"
	"github.com/ppetrovs/authd/internal/server/sessions"
	"github.com/ppetrovs/authd/internal/server/users"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Without the signing pair the service cannot do anything useful, so
	// a load failure is fatal at startup.
	keys, err := auth.LoadKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	if err != nil {
		return nil, err
	}
	codec := auth.NewCodec(keys, cfg)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	storeFactory := func(h dbx.DBTX) users.Repository {
		return users.NewPostgresRepository(h)
	}

	sessionService := sessions.NewService(db, storeFactory, codec, logger)
	userService := users.NewService(users.NewPostgresRepository(db), logger)

	httpServer := httpapi.NewServer(cfg, codec, sessionService, userService, logger)

	return &App{config: cfg, logger: logger, db: db, httpServer: httpServer}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err.Error())
	}
}
