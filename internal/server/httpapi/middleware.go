package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"
)

// TokenVerifier is the part of the auth gateway the middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, presented string) (services.Verification, error)
}

const claimsKey = "claims"

// RequireAuth verifies the bearer token and stores the claims on the echo
// context. DegradedTrust results pass only when allowDegraded is set.
func RequireAuth(v TokenVerifier, allowDegraded bool, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			header := c.Request().Header.Get(common.AuthorizationHeaderName)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authorization header")
			}

			verification, err := v.VerifyToken(ctx, header)
			if err != nil {
				return err
			}

			if verification.Trust == services.DegradedTrust {
				if !allowDegraded {
					logger.Info(ctx, "degraded-trust token rejected", "uid", verification.Claims.UID)
					return services.ErrInvalidSession
				}
				logger.Warn(ctx, "degraded-trust token accepted", "uid", verification.Claims.UID)
			}

			c.Set(claimsKey, verification.Claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims RequireAuth stored on c.
func ClaimsFrom(c echo.Context) (services.DecodedClaims, bool) {
	claims, ok := c.Get(claimsKey).(services.DecodedClaims)
	return claims, ok
}
