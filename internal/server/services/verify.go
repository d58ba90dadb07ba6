package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/auth"
)

// Trust says how a Verification was obtained.
type Trust int

const (
	// Verified claims passed signature and expiry checks.
	Verified Trust = iota
	// DegradedTrust claims came from an unsigned payload whose uid names an
	// existing identity. Nothing else about the token was checked.
	DegradedTrust
)

func (t Trust) String() string {
	switch t {
	case Verified:
		return "verified"
	case DegradedTrust:
		return "degraded"
	default:
		return fmt.Sprintf("trust(%d)", int(t))
	}
}

// DecodedClaims are the claims of a presented token. Never persisted.
type DecodedClaims struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email,omitempty"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	Issuer    string    `json:"iss"`
	Audience  string    `json:"aud"`
	Subject   string    `json:"sub"`
}

type Verification struct {
	Claims DecodedClaims
	Trust  Trust
}

// verifyStage is one way of turning a bare token into a Verification.
type verifyStage struct {
	name string
	run  func(ctx context.Context, token string) (Verification, error)
}

var errNoUIDClaim = errors.New("payload has no uid claim")

// VerifyToken accepts a token with or without the bearer prefix. The signed
// stage runs first; the unsigned stage only runs when it fails. Every failure
// is ErrInvalidSession.
func (g *AuthGateway) VerifyToken(ctx context.Context, presented string) (Verification, error) {
	token := common.StripBearer(presented)
	if token == "" {
		return Verification{}, ErrInvalidSession
	}

	stages := []verifyStage{
		{name: "signed", run: g.verifySigned},
		{name: "unsigned", run: g.verifyUnsigned},
	}

	for _, st := range stages {
		v, err := st.run(ctx, token)
		if err == nil {
			if v.Trust == DegradedTrust {
				g.logger.Info(ctx, "token matched only by unsigned payload", "uid", v.Claims.UID)
			}
			return v, nil
		}
		g.logger.Debug(ctx, "verification stage failed", "stage", st.name, logging.Token(token), "error", err)
	}

	return Verification{}, ErrInvalidSession
}

func (g *AuthGateway) verifySigned(ctx context.Context, token string) (Verification, error) {
	claims, err := g.store.VerifyIDToken(ctx, token)
	if err != nil {
		return Verification{}, err
	}

	dc := DecodedClaims{
		UID:     claims.UID,
		Email:   claims.Email,
		Issuer:  claims.Issuer,
		Subject: claims.Subject,
	}
	if len(claims.Audience) > 0 {
		dc.Audience = claims.Audience[0]
	}
	if claims.IssuedAt != nil {
		dc.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		dc.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}

	return Verification{Claims: dc, Trust: Verified}, nil
}

// verifyUnsigned decodes the payload without checking the signature and only
// confirms that its uid still names an identity.
func (g *AuthGateway) verifyUnsigned(ctx context.Context, token string) (Verification, error) {
	payload, err := auth.DecodePayload(token)
	if err != nil {
		return Verification{}, err
	}

	uid, ok := auth.StringClaim(payload, "uid")
	if !ok {
		return Verification{}, errNoUIDClaim
	}

	user, err := g.store.GetUser(ctx, uid)
	if err != nil {
		return Verification{}, err
	}

	dc := DecodedClaims{
		UID:      user.UID,
		Email:    user.Email,
		Issuer:   g.issuer,
		Audience: g.audience,
		Subject:  user.UID,
	}
	if iat, ok := auth.TimeClaim(payload, "iat"); ok {
		dc.IssuedAt = iat
	}
	if exp, ok := auth.TimeClaim(payload, "exp"); ok {
		dc.ExpiresAt = exp
	}

	return Verification{Claims: dc, Trust: DegradedTrust}, nil
}
