package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/identities"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/products"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/profiles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Products(db dbx.DBTX) products.Repository
	Bookings(db dbx.DBTX) bookings.Repository
}
