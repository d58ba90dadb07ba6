// Package credentials is the credential store: it owns identity records,
// password hashes and token issuance. Callers only ever see UserRecord and
// the provider error codes below, never hashes or repository errors.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/cryptox"
	"github.com/dmitrijs2005/eliteglam/internal/server/auth"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Provider error codes.
var (
	ErrEmailAlreadyExists = errors.New("credentials: email already exists")
	ErrInvalidEmail       = errors.New("credentials: invalid email")
	ErrWeakPassword       = errors.New("credentials: weak password")
	ErrUserNotFound       = errors.New("credentials: user not found")
	ErrInvalidPassword    = errors.New("credentials: invalid password")
	ErrInvalidIDToken     = errors.New("credentials: invalid id token")
)

// minPasswordLength is the store's own floor; the gateway enforces a stricter policy.
const minPasswordLength = 6

// UserRecord is the public view of an identity.
type UserRecord struct {
	UID         string
	Email       string
	DisplayName string
}

// Store implements the credential store over the identities repository.
type Store struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	params      cryptox.Params
}

// Option customizes a Store.
type Option func(*Store)

// WithHashParams overrides the argon2id cost parameters.
func WithHashParams(p cryptox.Params) Option {
	return func(s *Store) { s.params = p }
}

func NewStore(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, opts ...Option) *Store {
	s := &Store{
		db:          db,
		repomanager: m,
		issuer:      issuer,
		params:      cryptox.DefaultParams,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateUser registers a new identity. The email is stored as given but is
// unique case-insensitively.
func (s *Store) CreateUser(ctx context.Context, email, password, displayName string) (*UserRecord, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || strings.ContainsAny(email, " <>") {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password, s.params)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &models.Identity{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.repomanager.Identities(s.db).Create(ctx, identity); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return toRecord(identity), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	identity, err := s.repomanager.Identities(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err)
	}
	return toRecord(identity), nil
}

func (s *Store) GetUser(ctx context.Context, uid string) (*UserRecord, error) {
	if _, err := uuid.Parse(uid); err != nil {
		return nil, ErrUserNotFound
	}
	identity, err := s.repomanager.Identities(s.db).GetByUID(ctx, uid)
	if err != nil {
		return nil, notFound(err)
	}
	return toRecord(identity), nil
}

// SignInWithPassword checks the password for email and returns the identity.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*UserRecord, error) {
	identity, err := s.repomanager.Identities(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err)
	}

	ok, err := cryptox.VerifyPassword(password, identity.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidPassword
	}

	return toRecord(identity), nil
}

// CreateCustomToken mints a signed token for an existing uid.
func (s *Store) CreateCustomToken(ctx context.Context, uid string) (string, error) {
	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return "", err
	}
	return s.issuer.GenerateToken(user.UID, user.Email)
}

// VerifyIDToken checks signature, expiry, issuer and audience of a token minted
// by this store. Every failure wraps ErrInvalidIDToken.
func (s *Store) VerifyIDToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.issuer.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return claims, nil
}

func (s *Store) DeleteUser(ctx context.Context, uid string) error {
	if _, err := uuid.Parse(uid); err != nil {
		return ErrUserNotFound
	}
	if err := s.repomanager.Identities(s.db).Delete(ctx, uid); err != nil {
		return notFound(err)
	}
	return nil
}

// Issuer exposes the token issuer so the degraded path can stamp the same
// issuer and audience into synthesized claims.
func (s *Store) Issuer() *auth.Issuer {
	return s.issuer
}

func notFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return ErrUserNotFound
	}
	return err
}

func toRecord(i *models.Identity) *UserRecord {
	return &UserRecord{UID: i.UID, Email: i.Email, DisplayName: i.DisplayName}
}
