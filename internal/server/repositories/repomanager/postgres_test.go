package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/eliteglam/internal/server/migrations"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/identities"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/products"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/profiles"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubGooseUp(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = fn
}

func TestRepositoriesBindToHandle(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := NewPostgresRepositoryManager()

	assert.IsType(t, &identities.PostgresRepository{}, m.Identities(db))
	assert.IsType(t, &profiles.PostgresRepository{}, m.Profiles(db))
	assert.IsType(t, &products.PostgresRepository{}, m.Products(db))
	assert.IsType(t, &bookings.PostgresRepository{}, m.Bookings(db))
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDir string
	stubGooseUp(t, func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	})

	require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	stubGooseUp(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom })

	err = NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "apply migrations")
}

func TestEmbeddedMigrationsOrdered(t *testing.T) {
	names, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_identities.sql",
		"00002_profiles.sql",
		"00003_catalog.sql",
		"00004_product_rating_unbounded.sql",
	}, names)
}

func TestProductRatingColumnUnbounded(t *testing.T) {
	raw, err := fs.ReadFile(migrations.Migrations, "00004_product_rating_unbounded.sql")
	require.NoError(t, err)

	up, _, found := strings.Cut(string(raw), "-- +goose Down")
	require.True(t, found)
	assert.Contains(t, up, "ALTER COLUMN rating TYPE NUMERIC;")
}
