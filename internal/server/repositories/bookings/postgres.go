// Package bookings provides PostgreSQL-backed storage for appointment bookings.
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

const selectColumns = `id, customer_name, service_name, date, time, status, price, notes, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_name, service_name, date, time, status, price, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.CustomerName, b.ServiceName, b.Date, b.Time, string(b.Status), b.Price,
		sql.NullString{String: b.Notes, Valid: b.Notes != ""}, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns all bookings ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookings: %w", err)
	}
	defer rows.Close()

	result := []*models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + selectColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

// UpdateStatus moves the booking from status "from" to "to". The update only
// applies while the stored status still equals "from"; otherwise
// common.ErrConflict is returned.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) error {
	query := `
		UPDATE bookings SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, string(from), string(to), at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrConflict
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*models.Booking, error) {
	var b models.Booking
	var status string
	var notes sql.NullString
	if err := s.Scan(&b.ID, &b.CustomerName, &b.ServiceName, &b.Date, &b.Time, &status, &b.Price,
		&notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatus(status)
	b.Notes = notes.String
	return &b, nil
}
