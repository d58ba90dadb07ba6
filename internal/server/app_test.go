package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/config"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	return c
}

func TestNewApp_RegistersRoutes(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := newApp(testConfig(), db, repomanager.NewPostgresRepositoryManager(), logging.NewNop())

	routes := map[string]bool{}
	for _, r := range app.router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"POST /auth/register",
		"POST /auth/login",
		"GET /users/me",
		"PATCH /users/me",
		"GET /products",
		"GET /products/:id",
		"POST /products",
		"PUT /products/:id",
		"DELETE /products/:id",
		"GET /bookings",
		"GET /bookings/:id",
		"POST /bookings",
		"PATCH /bookings/:id/status",
		"POST /bookings/:id/cancel",
	} {
		assert.True(t, routes[want], "missing route %s", want)
	}
}

func TestNewApp_HealthAndAuthGuard(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := newApp(testConfig(), db, repomanager.NewPostgresRepositoryManager(), logging.NewNop())

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	app := newApp(testConfig(), db, repomanager.NewPostgresRepositoryManager(), logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
