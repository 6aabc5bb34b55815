package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// SessionCookie is the cookie carrying the session token. The browser
// client relies on it; API clients may send a bearer header instead.
const SessionCookie = "token"

// SessionVerifier checks a session token and returns the user ID behind it.
type SessionVerifier interface {
	Verify(token string, purpose ports.TokenPurpose) (string, error)
}

// Auth validates the session token and loads the credential behind it into
// the request context. The cookie takes precedence; the Authorization
// header is the fallback for non-browser clients.
func Auth(tokens SessionVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return domain.ErrMissingToken
			}

			userID, err := tokens.Verify(token, ports.PurposeSession)
			if err != nil {
				return domain.ErrInvalidToken
			}

			// The record is the source of truth for role and entity code:
			// a demotion takes effect on the next request, not at the next
			// token renewal.
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set("user_id", user.ID)
			c.Set("email", user.Email)
			c.Set("role", user.Role)
			c.Set("entity_code", user.EntityCode)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

var _ SessionVerifier = (ports.TokenIssuer)(nil)
