package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/api/metrics"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const stateCookie = "oauth_state"
const stateTTL = 10 * time.Minute

type OAuthHandler struct {
	oauthService ports.OAuthService
	sessionTTL   time.Duration
	appURL       string
}

// NewOAuthHandler builds the Google login handler. appURL is the SPA
// origin the callback redirects back to.
func NewOAuthHandler(oauthService ports.OAuthService, sessionTTL time.Duration, appURL string) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService, sessionTTL: sessionTTL, appURL: appURL}
}

// Start redirects the browser to the provider's consent screen with a
// fresh anti-forgery state bound to a short-lived cookie.
//
// @Summary      Start Google login
// @Tags         auth
// @Success      302
// @Router       /oauth2/login [get]
func (h *OAuthHandler) Start(c echo.Context) error {
	state, err := randomState()
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return c.Redirect(http.StatusFound, h.oauthService.AuthCodeURL(state))
}

// Callback completes the provider round trip, sets the session cookie,
// and sends the browser to the role-based landing page.
//
// @Summary      Google login callback
// @Tags         auth
// @Param        code   query  string  true  "Authorization code"
// @Param        state  query  string  true  "Anti-forgery state"
// @Success      302
// @Failure      401  {object}  map[string]string
// @Router       /oauth2/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	state := c.QueryParam("state")
	cookie, err := c.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		metrics.LoginsTotal.WithLabelValues("error", "google").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "state mismatch")
	}

	code := c.QueryParam("code")
	if code == "" {
		metrics.LoginsTotal.WithLabelValues("error", "google").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization code")
	}

	result, err := h.oauthService.Callback(c.Request().Context(), code)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error", "google").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success", "google").Inc()
	c.SetCookie(SessionCookie(result.Token, h.sessionTTL))
	return c.Redirect(http.StatusFound, h.appURL+result.RedirectURL)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
