package domain

import "errors"

// Sentinel errors shared across services. The HTTP error handler maps each
// of these to a deterministic status code.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("missing authentication token")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrValidation         = errors.New("validation failed")
	ErrTooManyRequests    = errors.New("too many requests")

	ErrAgentNotFound    = errors.New("agent not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrMovementNotFound = errors.New("movement not found")
	ErrVisitNotFound    = errors.New("visit not found")
	ErrPromoNotFound    = errors.New("promo not found")
	ErrAlertNotFound    = errors.New("alert not found")
)
