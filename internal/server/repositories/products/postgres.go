// Package products provides PostgreSQL-backed storage for the catalog.
package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

const selectColumns = `id, name, price, description, category, quantity, rating, created_at, updated_at`

// PostgresRepository implements product storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, price, description, category, quantity, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Price, p.Description, p.Category, p.Quantity, nullFloat(p.Rating), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns every product, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + selectColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	result := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// Update overwrites all mutable columns of the product with the given id.
func (r *PostgresRepository) Update(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET name = $2, price = $3, description = $4, category = $5,
			quantity = $6, rating = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Price, p.Description, p.Category, p.Quantity, nullFloat(p.Rating), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var p models.Product
	var rating sql.NullFloat64
	if err := s.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Category, &p.Quantity,
		&rating, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if rating.Valid {
		p.Rating = &rating.Float64
	}
	return &p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
