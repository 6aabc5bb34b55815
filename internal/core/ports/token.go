package ports

import "time"

// TokenPurpose scopes a signed token to a single use. A session token is
// never accepted where a verification token is required, and vice versa.
type TokenPurpose string

const (
	PurposeSession     TokenPurpose = "session"
	PurposeVerifyEmail TokenPurpose = "verify_email"
)

// TokenIssuer mints and verifies signed, time-limited bearer tokens.
type TokenIssuer interface {
	// Issue returns a signed token embedding userID, valid for ttl.
	Issue(userID string, purpose TokenPurpose, ttl time.Duration) (string, error)
	// Verify returns the embedded user ID; domain.ErrInvalidToken on
	// tamper, expiry, or purpose mismatch.
	Verify(token string, purpose TokenPurpose) (string, error)
	// SessionTTL is the lifetime applied to session tokens.
	SessionTTL() time.Duration
}
