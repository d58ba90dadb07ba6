// Package profiles is the profile store: one document per uid, with the
// optional profile details kept as JSONB.
package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores a new profile document. A second document for the same uid
// yields common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, profile *models.Profile) error {
	details, err := encodeDetails(profile.Details)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO profiles (uid, username, email, profile, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err = r.db.ExecContext(ctx, query,
		profile.UID, profile.Username, profile.Email, details, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, uid string) (*models.Profile, error) {
	query :=
		`SELECT uid, username, email, profile, created_at, updated_at FROM profiles
		 WHERE uid = $1
		 `

	p := &models.Profile{}
	var details []byte
	err := r.db.QueryRowContext(ctx, query, uid).Scan(
		&p.UID, &p.Username, &p.Email, &details, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if len(details) > 0 {
		p.Details = &models.ProfileDetails{}
		if err := json.Unmarshal(details, p.Details); err != nil {
			return nil, fmt.Errorf("decode profile details: %w", err)
		}
	}

	return p, nil
}

// Update rewrites username, details and updated_at of an existing document.
func (r *PostgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	details, err := encodeDetails(profile.Details)
	if err != nil {
		return err
	}

	query :=
		`UPDATE profiles SET username = $2, profile = $3, updated_at = $4
		 WHERE uid = $1
		 `

	res, err := r.db.ExecContext(ctx, query, profile.UID, profile.Username, details, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func encodeDetails(d *models.ProfileDetails) (any, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode profile details: %w", err)
	}
	return b, nil
}
