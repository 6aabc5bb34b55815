package ports

import "context"

// Mailer sends the transactional emails the platform produces. The
// synchronous SMTP implementation lives in infrastructure/mail; the
// queue package wraps it for fire-and-forget delivery.
type Mailer interface {
	SendVerification(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, code string) error
	SendChangeConfirmation(ctx context.Context, to, change string) error
}

// ResetLimiter throttles password-reset traffic per email address.
type ResetLimiter interface {
	// Allow reports whether another attempt is permitted for key within
	// the current window.
	Allow(ctx context.Context, key string) (bool, error)
}
