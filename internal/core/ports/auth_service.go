package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// LoginResult carries everything the transport layer needs after a
// successful login: the session token to set as a cookie and the
// role-based redirect target.
type LoginResult struct {
	Token       string
	User        *domain.User
	RedirectURL string
}

// AuthService implements registration, email verification, login, and the
// three-step password-reset flow.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// RequestPasswordReset never reveals whether the email exists; callers
	// must render the same generic message on nil error.
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, email, code string) error
	UpdatePassword(ctx context.Context, email, code, newPassword string) error
}
