// Package services contains server-side business logic. AuthGateway bridges
// the credential store and the profile store; ProductService and
// BookingService own the catalog.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/auth"
	"github.com/dmitrijs2005/eliteglam/internal/server/credentials"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
)

// Boundary errors. Callers never learn which step of a login or a token
// check failed.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", common.ErrorUnauthorized)
	ErrInvalidSession     = fmt.Errorf("%w: invalid token", common.ErrorUnauthorized)
)

// CredentialStore is the identity provider the gateway delegates to.
type CredentialStore interface {
	CreateUser(ctx context.Context, email, password, displayName string) (*credentials.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*credentials.UserRecord, error)
	GetUser(ctx context.Context, uid string) (*credentials.UserRecord, error)
	SignInWithPassword(ctx context.Context, email, password string) (*credentials.UserRecord, error)
	CreateCustomToken(ctx context.Context, uid string) (string, error)
	VerifyIDToken(ctx context.Context, token string) (*auth.Claims, error)
	DeleteUser(ctx context.Context, uid string) error
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Username        string `json:"username" validate:"min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// SessionCredential is what a successful login hands back to the client.
type SessionCredential struct {
	UID      string
	Email    string
	Username string
	Token    string
}

// ProfileUpdate carries a partial profile change; nil fields are kept.
type ProfileUpdate struct {
	Username  *string
	FirstName *string
	LastName  *string
	PhotoURL  *string
}

type AuthGateway struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       CredentialStore
	validator   *Validator
	logger      logging.Logger
	issuer      string
	audience    string
	now         func() time.Time
}

// NewAuthGateway wires the gateway. issuer and audience are stamped into
// claims synthesized on the degraded-trust path.
func NewAuthGateway(db *sql.DB, m repomanager.RepositoryManager, store CredentialStore,
	issuer, audience string, logger logging.Logger) *AuthGateway {
	return &AuthGateway{
		db:          db,
		repomanager: m,
		store:       store,
		validator:   NewValidator(),
		logger:      logger.With("module", "auth"),
		issuer:      issuer,
		audience:    audience,
		now:         time.Now,
	}
}

// Register creates an identity and its profile. It never logs the user in.
func (g *AuthGateway) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	if in.Password != in.PasswordConfirm {
		return nil, common.NewValidationError("passwords do not match")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	violations := g.validator.Violations(in)
	violations = append(violations, PasswordViolations(in.Password)...)
	if len(violations) > 0 {
		return nil, common.NewValidationError(violations...)
	}

	user, err := g.store.CreateUser(ctx, in.Email, in.Password, in.Username)
	if err != nil {
		return nil, g.mapCreateUserError(ctx, err)
	}

	now := g.now().UTC()
	profile := &models.Profile{
		UID:       user.UID,
		Username:  in.Username,
		Email:     user.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.repomanager.Profiles(g.db).Create(ctx, profile); err != nil {
		return nil, g.compensate(ctx, user.UID, err)
	}

	g.logger.Info(ctx, "user registered", "uid", user.UID)
	return profile, nil
}

func (g *AuthGateway) mapCreateUserError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, credentials.ErrEmailAlreadyExists):
		return fmt.Errorf("%w: email already registered", common.ErrConflict)
	case errors.Is(err, credentials.ErrInvalidEmail):
		return common.NewValidationError("please provide a valid email address")
	case errors.Is(err, credentials.ErrWeakPassword):
		return common.NewValidationError("password is too weak")
	default:
		g.logger.Error(ctx, "credential store rejected registration", "error", err)
		return fmt.Errorf("%w: could not create identity", common.ErrAuthGateway)
	}
}

// compensate deletes the identity whose profile could not be written. The
// caller always gets a PartialRegistrationError.
func (g *AuthGateway) compensate(ctx context.Context, uid string, cause error) error {
	perr := &common.PartialRegistrationError{UID: uid, Cause: cause}

	if err := g.store.DeleteUser(ctx, uid); err != nil {
		g.logger.Error(ctx, "compensating identity delete failed", "uid", uid, "error", err)
	} else {
		perr.Compensated = true
	}

	g.logger.Error(ctx, "profile write failed after identity creation",
		"uid", uid, "compensated", perr.Compensated, "error", cause)
	return perr
}

// Login checks the password through the credential store and mints a fresh
// token. Every failure is ErrInvalidCredentials.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (*SessionCredential, error) {
	email = strings.TrimSpace(email)

	user, err := g.store.GetUserByEmail(ctx, email)
	if err != nil {
		g.logFailure(ctx, "login lookup failed", err, credentials.ErrUserNotFound)
		return nil, ErrInvalidCredentials
	}

	if _, err := g.store.SignInWithPassword(ctx, email, password); err != nil {
		g.logFailure(ctx, "login rejected", err, credentials.ErrInvalidPassword, credentials.ErrUserNotFound)
		return nil, ErrInvalidCredentials
	}

	profile, err := g.repomanager.Profiles(g.db).Get(ctx, user.UID)
	if err != nil {
		g.logFailure(ctx, "login profile read failed", err, common.ErrorNotFound)
		return nil, ErrInvalidCredentials
	}

	token, err := g.store.CreateCustomToken(ctx, user.UID)
	if err != nil {
		g.logger.Error(ctx, "token issuance failed", "uid", user.UID, "error", err)
		return nil, ErrInvalidCredentials
	}

	g.logger.Info(ctx, "login succeeded", "uid", user.UID)
	return &SessionCredential{
		UID:      profile.UID,
		Email:    profile.Email,
		Username: profile.Username,
		Token:    token,
	}, nil
}

// GetProfile returns the caller's profile record.
func (g *AuthGateway) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	p, err := g.repomanager.Profiles(g.db).Get(ctx, uid)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &common.NotFoundError{Resource: "Profile", ID: uid}
		}
		return nil, err
	}
	return p, nil
}

// UpdateProfile applies upd to the caller's profile inside a transaction and
// refreshes updatedAt.
func (g *AuthGateway) UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) (*models.Profile, error) {
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		upd.Username = &name
		if len([]rune(name)) < 2 {
			return nil, common.NewValidationError("username must be at least 2 characters long")
		}
	}

	var updated *models.Profile
	err := dbx.WithTx(ctx, g.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := g.repomanager.Profiles(tx)

		p, err := repo.Get(ctx, uid)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return &common.NotFoundError{Resource: "Profile", ID: uid}
			}
			return err
		}

		upd.apply(p)
		p.UpdatedAt = g.now().UTC()

		if err := repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u ProfileUpdate) apply(p *models.Profile) {
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.FirstName == nil && u.LastName == nil && u.PhotoURL == nil {
		return
	}
	if p.Details == nil {
		p.Details = &models.ProfileDetails{}
	}
	if u.FirstName != nil {
		p.Details.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.Details.LastName = *u.LastName
	}
	if u.PhotoURL != nil {
		p.Details.PhotoURL = *u.PhotoURL
	}
}

// logFailure logs expected rejections at info and anything else at error.
func (g *AuthGateway) logFailure(ctx context.Context, msg string, err error, expected ...error) {
	for _, e := range expected {
		if errors.Is(err, e) {
			g.logger.Info(ctx, msg, "reason", e.Error())
			return
		}
	}
	g.logger.Error(ctx, msg, "error", err)
}
