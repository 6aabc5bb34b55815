package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// authClaims is the caller identity injected by the Auth middleware.
type authClaims struct {
	UserID     string
	Email      string
	Role       string
	EntityCode string
}

// ctxClaims extracts the auth claims and performs a fast-fail check
// before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - agent and client roles need an entity code to scope their data;
//     a credential without one is valid but operationally unusable.
func ctxClaims(c echo.Context) (authClaims, error) {
	claims := authClaims{}
	claims.Role, _ = c.Get("role").(string)
	if claims.Role == "" {
		return authClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	claims.UserID, _ = c.Get("user_id").(string)
	claims.Email, _ = c.Get("email").(string)
	claims.EntityCode, _ = c.Get("entity_code").(string)

	if (claims.Role == domain.RoleAgent || claims.Role == domain.RoleClient) && claims.EntityCode == "" {
		return authClaims{}, echo.NewHTTPError(http.StatusForbidden, "credential is not linked to an entity")
	}

	return claims, nil
}
