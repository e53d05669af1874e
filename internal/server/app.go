// Package server wires configuration, storage, services and the HTTP
// transport into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/personapi/internal/dbx"
	"github.com/dmitrijs2005/personapi/internal/logging"
	"github.com/dmitrijs2005/personapi/internal/server/config"
	"github.com/dmitrijs2005/personapi/internal/server/emailcheck"
	"github.com/dmitrijs2005/personapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/personapi/internal/server/rest"
	"github.com/dmitrijs2005/personapi/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewApp validates c and opens the database pool.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, c.DBAcquireTimeout)
	defer cancel()

	db, err := dbx.Open(openCtx, repomanager.DriverName, c.DSN(), dbx.PoolConfig{
		MaxOpen:     c.DBMaxOpenConns,
		MaxIdle:     c.DBMaxIdleConns,
		IdleTimeout: c.DBIdleTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, db, repomanager.NewPostgresRepositoryManager()), nil
}

func newApp(c *config.Config, l logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	return &App{config: c, logger: l.With("module", "app"), db: db, repomanager: rm}
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

func (app *App) newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(app.db, app.config.DBName),
	)
	return reg
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc, errs chan<- error) {
	verifier, err := emailcheck.New(app.config)
	if err != nil {
		errs <- err
		cancelFunc()
		return
	}

	ps := services.NewPersonService(app.db, app.repomanager, app.config)
	s := rest.NewServer(app.config, app.logger, ps, ps.Tokens(), verifier, app.db, app.newRegistry())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		errs <- err
		cancelFunc()
	}
}

// Run blocks until the server stops, by signal, cancellation of ctx or
// failure, then closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if app.config.RunMigrations {
		if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
			return err
		}
		app.logger.Info(ctx, "Migrations applied")
	}

	errs := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, errs)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}
