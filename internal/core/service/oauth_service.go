package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// OAuthService bridges the external identity provider to local
// credentials: exchange the code, fetch the profile, find or create the
// credential, issue a session token.
type OAuthService struct {
	provider ports.OAuthProvider
	users    ports.UserRepository
	tokens   *TokenService
	log      zerolog.Logger
}

func NewOAuthService(provider ports.OAuthProvider, users ports.UserRepository, tokens *TokenService, log zerolog.Logger) *OAuthService {
	return &OAuthService{provider: provider, users: users, tokens: tokens, log: log}
}

func (s *OAuthService) AuthCodeURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// Callback completes the provider round trip and logs the user in.
// First-time visitors get a guest-role, pre-verified credential; returning
// visitors have their email and avatar refreshed.
func (s *OAuthService) Callback(ctx context.Context, code string) (*ports.LoginResult, error) {
	accessToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}

	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}

	user, err := s.findOrCreate(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("oauth callback: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, ports.PurposeSession, s.tokens.SessionTTL())
	if err != nil {
		return nil, fmt.Errorf("oauth callback: issue session token: %w", err)
	}

	s.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("oauth login")
	return &ports.LoginResult{
		Token:       token,
		User:        user,
		RedirectURL: user.RedirectTarget(),
	}, nil
}

func (s *OAuthService) findOrCreate(ctx context.Context, p *ports.GoogleProfile) (*domain.User, error) {
	user, err := s.users.FindByGoogleID(ctx, p.ID)
	if err == nil {
		changed := false
		if user.Email != p.Email {
			user.Email = p.Email
			changed = true
		}
		if p.Picture != "" && user.Avatar != p.Picture {
			user.Avatar = p.Picture
			changed = true
		}
		if changed {
			if err := s.users.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	// Provider-verified email: the account starts life verified.
	created, err := s.users.Create(ctx, &domain.User{
		Email:           p.Email,
		GoogleID:        p.ID,
		EntityName:      p.Name,
		Avatar:          p.Picture,
		Role:            domain.RoleGuest,
		AuthType:        domain.AuthTypeGoogle,
		IsEmailVerified: true,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", created.Email).Msg("oauth first login, credential created")
	return created, nil
}
