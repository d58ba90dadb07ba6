package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ProductInput is the body of a product create request.
type ProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Rating      *float64 `json:"rating,omitempty" validate:"omitnil,gte=0"`
}

func productInputOf(p *models.Product) ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Rating:      p.Rating,
	}
}

type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *Validator
	logger      logging.Logger
	now         func() time.Time
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ProductService {
	return &ProductService{
		db:          db,
		repomanager: m,
		validator:   NewValidator(),
		logger:      logger.With("module", "products"),
		now:         time.Now,
	}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Quantity:    in.Quantity,
		Rating:      in.Rating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repomanager.Products(s.db).Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "product created", "id", p.ID)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repomanager.Products(s.db).List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if !validID(id) {
		return nil, &common.NotFoundError{Resource: "Product", ID: id}
	}
	p, err := s.repomanager.Products(s.db).Get(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}
	return p, nil
}

// Update applies a partial change; the merged product must still be valid.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch) error {
	if !validID(id) {
		return &common.NotFoundError{Resource: "Product", ID: id}
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		p, err := repo.Get(ctx, id)
		if err != nil {
			return productNotFound(err, id)
		}

		patch.Apply(p)
		if err := s.validator.Validate(productInputOf(p)); err != nil {
			return err
		}
		p.UpdatedAt = s.now().UTC()

		return productNotFound(repo.Update(ctx, p), id)
	})
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return &common.NotFoundError{Resource: "Product", ID: id}
	}
	if err := s.repomanager.Products(s.db).Delete(ctx, id); err != nil {
		return productNotFound(err, id)
	}
	s.logger.Info(ctx, "product deleted", "id", id)
	return nil
}

// productNotFound replaces a bare not-found with one naming the product.
func productNotFound(err error, id string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return &common.NotFoundError{Resource: "Product", ID: id}
	}
	return err
}

// validID reports whether id can name a stored row at all.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
