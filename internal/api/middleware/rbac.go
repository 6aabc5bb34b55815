package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// RBAC gates a route to the given roles. It must run after Auth, which
// stores the caller's role on the context; a missing role is treated the
// same as a disallowed one.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
