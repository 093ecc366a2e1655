// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and the gRPC health endpoint until the
// process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/flashnest/internal/logging"
	"github.com/dmitrijs2005/flashnest/internal/server/config"
	"github.com/dmitrijs2005/flashnest/internal/server/httpapi"
	"github.com/dmitrijs2005/flashnest/internal/server/mail"
	"github.com/dmitrijs2005/flashnest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flashnest/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/flashnest/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	mailer       *mail.Dispatcher
	userService  *services.UserService
	setService   *services.SetService
	mediaService *services.MediaService
	httpHandler  http.Handler
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	sender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     c.SMTPServer,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPassword,
		FromName: c.MailFromName,
		Domain:   c.MainDomain,
		Timeout:  c.MailTimeout,
	})
	dispatcher := mail.NewDispatcher(sender, logger, c.MailTimeout)

	app := &App{
		config:       c,
		logger:       logger,
		db:           db,
		repomanager:  rm,
		mailer:       dispatcher,
		userService:  services.NewUserService(db, rm, c, dispatcher, logger),
		setService:   services.NewSetService(db, rm, logger),
		mediaService: services.NewMediaService(c),
	}
	app.httpHandler = app.newHTTPHandler()

	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) newHTTPHandler() http.Handler {
	h := httpapi.NewHandler(app.userService, app.setService, app.mediaService, httpapi.CookieConfig{
		Name:   app.config.CookieName,
		Domain: app.config.CookieDomain,
		Secure: app.config.CookieSecure,
		MaxAge: app.config.SessionTokenValidityDuration,
	}, app.logger)
	return httpapi.NewRouter(h, app.config.AllowedOrigins)
}

func (app *App) runHTTPServer(ctx context.Context) error {
	lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           app.httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app.serveHTTP(ctx, srv, lis)
}

// serveHTTP serves on lis until ctx is done, then shuts srv down. It returns
// only after in-flight requests have finished or shutdownTimeout passed.
func (app *App) serveHTTP(ctx context.Context, srv *http.Server, lis net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(lis)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run migrates the schema and serves until ctx is cancelled, a signal
// arrives or one of the servers fails. In-flight requests finish first,
// then pending emails are flushed and the database is closed.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Warn(ctx, "db close error", "error", err)
		}
	}()

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.runHTTPServer(gctx)
	})

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthProbeInterval)
		return s.Run(gctx)
	})

	err := g.Wait()

	app.mailer.Wait()
	app.logger.Info(ctx, "App stopped")

	return err
}
