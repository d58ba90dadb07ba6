package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/eliteglam/internal/client/client"
	"github.com/dmitrijs2005/eliteglam/internal/client/config"
	"github.com/dmitrijs2005/eliteglam/internal/client/models"
	"github.com/dmitrijs2005/eliteglam/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/eliteglam/internal/client/session"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
)

// API is the part of the API client the commands use.
type API interface {
	Register(ctx context.Context, r models.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, email, password string) (*session.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.Profile, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CreateBooking(ctx context.Context, in models.NewBooking) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, id, status string) (*models.Booking, error)
	CancelBooking(ctx context.Context, id string) (*models.Booking, error)
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	api     API
	session *session.Session
	db      *sql.DB
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stderr, slog.LevelWarn)
	s := session.New(metadata.NewSQLiteRepository(db), logger)

	return &App{
		config:  c,
		api:     client.NewAPIClient(c.APIBaseURL, s, c.RequestTimeout),
		session: s,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.session.LoggedIn(ctx)
}

func (a *App) status(ctx context.Context) string {
	u, err := a.session.User(ctx)
	if err != nil || u == nil || !a.isLoggedIn(ctx) {
		return "guest"
	}
	return u.Username
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	if err := a.api.Ping(ctx); err != nil {
		printlnFn("Warning: API is not reachable:", err)
	}

	printlnFn("Welcome to eliteglam CLI (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, bufio.NewScanner(a.reader))
}
