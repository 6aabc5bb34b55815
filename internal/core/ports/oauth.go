package ports

import "context"

// GoogleProfile is the subset of the provider's userinfo payload the
// platform consumes.
type GoogleProfile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// OAuthProvider abstracts the external identity provider.
type OAuthProvider interface {
	// AuthCodeURL returns the consent-screen redirect for the given
	// anti-forgery state.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (string, error)
	// FetchProfile retrieves the profile behind an access token.
	FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error)
}

// OAuthService bridges the external provider to local credentials.
type OAuthService interface {
	AuthCodeURL(state string) string
	// Callback exchanges the code, finds or creates the local credential,
	// and issues a session token.
	Callback(ctx context.Context, code string) (*LoginResult, error)
}
