package products

import (
	"context"

	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context) ([]*models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
