package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/famcare/caregiving-api/internal/api/metrics"
	"github.com/famcare/caregiving-api/internal/core/domain"
	"github.com/famcare/caregiving-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// Auth validates the bearer access token and injects its claims into the
// context. Expired and invalid tokens get the same 401 response; the cause
// is only logged.
func Auth(tokens ports.TokenService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				result := "invalid"
				if errors.Is(err, domain.ErrExpiredToken) {
					result = "expired"
				}
				metrics.AuthEventsTotal.WithLabelValues("token", result).Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
			}
			if claims.Purpose != domain.PurposeAccess {
				metrics.AuthEventsTotal.WithLabelValues("token", "invalid").Inc()
				log.Debug().Str("purpose", string(claims.Purpose)).Msg("non-access token used as bearer")
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
			}

			c.Set(ClaimsKey, claims)
			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, claims.Role())

			return next(c)
		}
	}
}

// ClaimsFrom returns the claims injected by Auth, or nil when Auth did not run.
func ClaimsFrom(c echo.Context) *domain.TokenClaims {
	claims, _ := c.Get(ClaimsKey).(*domain.TokenClaims)
	return claims
}
