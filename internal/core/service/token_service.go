package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const (
	defaultSessionTTL      = 7 * 24 * time.Hour
	defaultVerificationTTL = 24 * time.Hour
)

// TokenService issues and verifies HS256 tokens. Validity is purely
// cryptographic plus expiry; tokens are never stored server-side, so
// revocation before expiry is not supported.
type TokenService struct {
	secret          []byte
	sessionTTL      time.Duration
	verificationTTL time.Duration
}

// NewTokenService builds a TokenService. Zero TTLs fall back to 7 days for
// sessions and 1 day for verification tokens. An empty secret is a
// programming error the caller must reject at startup.
func NewTokenService(secret string, sessionTTL, verificationTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token service: signing secret is required")
	}
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	if verificationTTL <= 0 {
		verificationTTL = defaultVerificationTTL
	}
	return &TokenService{
		secret:          []byte(secret),
		sessionTTL:      sessionTTL,
		verificationTTL: verificationTTL,
	}, nil
}

func (s *TokenService) SessionTTL() time.Duration { return s.sessionTTL }

// VerificationTTL is the lifetime applied to email-verification tokens.
func (s *TokenService) VerificationTTL() time.Duration { return s.verificationTTL }

// Issue returns a signed token embedding userID, scoped to purpose.
func (s *TokenService) Issue(userID string, purpose ports.TokenPurpose, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     userID,
		"purpose": string(purpose),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify returns the embedded user ID if the signature, expiry, and
// purpose all check out; domain.ErrInvalidToken otherwise.
func (s *TokenService) Verify(token string, purpose ports.TokenPurpose) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	if p, _ := claims["purpose"].(string); p != string(purpose) {
		return "", domain.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidToken
	}
	return sub, nil
}
