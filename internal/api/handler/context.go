package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/famcare/caregiving-api/internal/api/middleware"
	"github.com/famcare/caregiving-api/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware. Their
// absence means the route was registered without Auth.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// selfOrAdmin allows the caller to act on userID when it is their own
// account or when they are an admin.
func selfOrAdmin(claims *domain.TokenClaims, userID string) error {
	if claims.UserID == userID || claims.Role() == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
