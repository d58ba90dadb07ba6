// Package server wires the eliteglam backend: it opens the database, runs
// migrations, builds the services and serves the REST API and the internal
// gRPC token service until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/auth"
	"github.com/dmitrijs2005/eliteglam/internal/server/config"
	"github.com/dmitrijs2005/eliteglam/internal/server/credentials"
	"github.com/dmitrijs2005/eliteglam/internal/server/httpapi"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"

	gs "github.com/dmitrijs2005/eliteglam/internal/server/grpc"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	router     *echo.Echo
	grpcServer *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(c.LogLevel, slog.LevelInfo))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return newApp(c, db, m, logger), nil
}

// newApp builds the services and transports on top of an open database.
func newApp(c *config.Config, db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *App {
	issuer := auth.NewIssuer([]byte(c.SecretKey), c.Issuer(), c.ProjectID, c.TokenValidityDuration)
	store := credentials.NewStore(db, m, issuer)

	gateway := services.NewAuthGateway(db, m, store, issuer.Issuer(), issuer.Audience(), logger)
	products := services.NewProductService(db, m, logger)
	bookings := services.NewBookingService(db, m, logger)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:             logger,
		Auth:               gateway,
		Products:           products,
		Bookings:           bookings,
		AllowDegradedTrust: c.AllowDegradedTrust,
		AuthRateLimit:      c.AuthRateLimit,
		AuthRateBurst:      c.AuthRateBurst,
		RequestTimeout:     c.RequestTimeout,
	})

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		router:     router,
		grpcServer: gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gateway, c.AllowDegradedTrust),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.router.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := app.router.Start(app.config.EndpointAddrHTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
