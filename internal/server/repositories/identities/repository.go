package identities

import (
	"context"

	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, identity *models.Identity) error
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	GetByUID(ctx context.Context, uid string) (*models.Identity, error)
	Delete(ctx context.Context, uid string) error
}
