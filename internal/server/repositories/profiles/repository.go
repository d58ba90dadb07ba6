package profiles

import (
	"context"

	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, uid string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}
