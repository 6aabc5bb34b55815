package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const resetCodeTTL = 10 * time.Minute

// AuthService implements registration, email verification, login, and the
// password-reset flow.
type AuthService struct {
	users   ports.UserRepository
	tokens  *TokenService
	mailer  ports.Mailer
	limiter ports.ResetLimiter
	log     zerolog.Logger
	now     func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	tokens *TokenService,
	mailer ports.Mailer,
	limiter ports.ResetLimiter,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		limiter: limiter,
		log:     log,
		now:     time.Now,
	}
}

// Register creates an unverified guest credential and emails a 1-day
// verification token. If the email cannot be sent the credential is
// deleted again so a retry does not run into a duplicate conflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		s.log.Warn().Str("email", email).Msg("registration attempt with existing email")
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nowUTC := s.now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleGuest,
		AuthType:     domain.AuthTypeEmail,
		CreatedAt:    nowUTC,
		UpdatedAt:    nowUTC,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.ID, ports.PurposeVerifyEmail, s.tokens.VerificationTTL())
	if err != nil {
		_ = s.users.Delete(ctx, created.ID)
		return nil, fmt.Errorf("register: issue verification token: %w", err)
	}

	if err := s.mailer.SendVerification(ctx, created.Email, token); err != nil {
		// Compensating rollback: without the email the account can never
		// be verified, and a retry would hit the duplicate conflict.
		if delErr := s.users.Delete(ctx, created.ID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", created.ID).Msg("rollback after mail failure failed")
		}
		return nil, fmt.Errorf("register: send verification email: %w", err)
	}

	s.log.Info().Str("email", created.Email).Msg("user registered")
	return created, nil
}

// VerifyEmail marks the credential behind a verification token as verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokens.Verify(token, ports.PurposeVerifyEmail)
	if err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("verify email: %w", err)
	}

	if user.IsEmailVerified {
		return nil
	}
	user.IsEmailVerified = true
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}

	s.log.Info().Str("email", user.Email).Msg("email verified")
	return nil
}

// Login authenticates the credentials and issues a 7-day session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	// Google-only accounts carry no password hash.
	if user.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(user.ID, ports.PurposeSession, s.tokens.SessionTTL())
	if err != nil {
		return nil, fmt.Errorf("login: issue session token: %w", err)
	}

	s.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("login")
	return &ports.LoginResult{
		Token:       token,
		User:        user,
		RedirectURL: user.RedirectTarget(),
	}, nil
}

// RequestPasswordReset stores a hashed one-time code with a 10-minute
// expiry and emails it. The caller always renders the same generic
// message, whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := s.checkResetBudget(ctx, email); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("email", email).Msg("reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("request reset: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("request reset: %w", err)
	}

	user.ResetTokenHash = string(hash)
	user.ResetExpiresAt = s.now().UTC().Add(resetCodeTTL)
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("request reset: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, code); err != nil {
		// Still return nil: the response must not reveal whether the
		// account exists.
		s.log.Warn().Err(err).Str("email", user.Email).Msg("reset email failed")
		return nil
	}

	s.log.Info().Str("email", user.Email).Msg("reset code issued")
	return nil
}

// VerifyResetCode checks a code against the stored hash and expiry without
// consuming it.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	if err := s.checkResetBudget(ctx, email); err != nil {
		return err
	}
	user, err := s.findWithActiveCode(ctx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.ResetTokenHash), []byte(code)) != nil {
		return domain.ErrInvalidResetCode
	}
	return nil
}

// UpdatePassword revalidates the code, enforces the password policy,
// replaces the hash, and clears the code so it cannot be replayed. The
// code check spends the same per-email budget as VerifyResetCode, so an
// exhausted caller cannot keep guessing here instead.
func (s *AuthService) UpdatePassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.checkResetBudget(ctx, email); err != nil {
		return err
	}
	user, err := s.findWithActiveCode(ctx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.ResetTokenHash), []byte(code)) != nil {
		return domain.ErrInvalidResetCode
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetTokenHash = ""
	user.ResetExpiresAt = time.Time{}
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("email", user.Email).Msg("password reset completed")
	return nil
}

func (s *AuthService) findWithActiveCode(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidResetCode
		}
		return nil, fmt.Errorf("reset lookup: %w", err)
	}
	if !user.HasActiveResetCode(s.now()) {
		return nil, domain.ErrInvalidResetCode
	}
	return user, nil
}

// checkResetBudget consults the per-email limiter. A limiter failure is
// logged and the attempt allowed: losing rate limiting briefly beats
// locking every user out of password recovery.
func (s *AuthService) checkResetBudget(ctx context.Context, email string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Msg("reset limiter unavailable, allowing attempt")
		return nil
	}
	if !allowed {
		return domain.ErrTooManyRequests
	}
	return nil
}

const resetCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const resetCodeLength = 8

// generateResetCode returns an 8-character one-time code drawn from an
// unambiguous uppercase alphabet.
func generateResetCode() (string, error) {
	buf := make([]byte, resetCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = resetCodeAlphabet[int(b)%len(resetCodeAlphabet)]
	}
	return string(buf), nil
}
