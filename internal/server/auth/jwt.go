// Package auth mints and verifies the signed session tokens and decodes token
// payloads without verification for the degraded-trust path.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every token issued by the credential store.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens for a single issuer/audience pair.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, issuer, audience string, validity time.Duration) *Issuer {
	return &Issuer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		validity: validity,
		now:      time.Now,
	}
}

func (i *Issuer) Issuer() string   { return i.issuer }
func (i *Issuer) Audience() string { return i.audience }

// GenerateToken returns a signed token for uid. Subject is always the uid.
func (i *Issuer) GenerateToken(uid, email string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:   uid,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   uid,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, expiry, issuer and audience. Expired tokens
// yield common.ErrTokenExpired, everything else common.ErrInvalidToken.
func (i *Issuer) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UID == "" || claims.UID != claims.Subject {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
