// Package identities stores the credential records behind the auth gateway.
package identities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

// PostgresRepository implements identity storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the identity and fills CreatedAt. Emails are unique
// case-insensitively; a duplicate yields common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, identity *models.Identity) error {
	query :=
		`INSERT INTO identities (uid, email, password_hash, display_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		identity.UID, identity.Email, identity.PasswordHash, identity.DisplayName).Scan(&identity.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query :=
		`SELECT uid, email, password_hash, display_name, created_at FROM identities
		 WHERE lower(email) = lower($1)
		 `
	return r.scanOne(ctx, query, email)
}

func (r *PostgresRepository) GetByUID(ctx context.Context, uid string) (*models.Identity, error) {
	query :=
		`SELECT uid, email, password_hash, display_name, created_at FROM identities
		 WHERE uid = $1
		 `
	return r.scanOne(ctx, query, uid)
}

// Delete removes the identity; common.ErrorNotFound if there was none.
func (r *PostgresRepository) Delete(ctx context.Context, uid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE uid = $1`, uid)
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

func (r *PostgresRepository) scanOne(ctx context.Context, query string, arg any) (*models.Identity, error) {
	identity := &models.Identity{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.UID, &identity.Email, &identity.PasswordHash, &identity.DisplayName, &identity.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return identity, nil
}
