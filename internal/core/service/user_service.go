package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// UserService implements user administration and self-service credential
// changes.
type UserService struct {
	users  ports.UserRepository
	mailer ports.Mailer
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, mailer ports.Mailer, log zerolog.Logger) *UserService {
	return &UserService{users: users, mailer: mailer, log: log}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.users.FindByIDs(ctx, ids)
}

// UpdateUser applies an admin patch to another user's record. Role
// assignment is restricted to admins; role and entity code always change
// together so a record never keeps a stale pairing.
func (s *UserService) UpdateUser(ctx context.Context, callerRole, id string, patch ports.UserPatch) (*domain.User, error) {
	if patch.Role != nil || patch.EntityCode != nil {
		if callerRole != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *patch.Role)
		}
		user.Role = *patch.Role
		// A role change invalidates the previous entity pairing unless the
		// patch supplies a replacement.
		if patch.EntityCode == nil {
			user.EntityCode = ""
		}
	}
	if patch.EntityCode != nil {
		user.EntityCode = *patch.EntityCode
	}
	if patch.EntityName != nil {
		user.EntityName = *patch.EntityName
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// UpdateEmail switches the login email after re-verifying the current
// credentials. Only the owner may change their own address.
func (s *UserService) UpdateEmail(ctx context.Context, callerID, id, currentEmail, currentPassword, newEmail string) (*domain.User, error) {
	if callerID != id {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Email != currentEmail || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, newEmail); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("update email: %w", err)
	}

	oldEmail := user.Email
	user.Email = newEmail
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update email: %w", err)
	}

	if err := s.mailer.SendChangeConfirmation(ctx, oldEmail, "login email"); err != nil {
		s.log.Warn().Err(err).Str("email", oldEmail).Msg("change confirmation email failed")
	}

	s.log.Info().Str("user_id", user.ID).Msg("email updated")
	return user, nil
}

// UpdateUserPassword replaces the password after re-verifying the current
// one and enforcing the policy on the replacement.
func (s *UserService) UpdateUserPassword(ctx context.Context, callerID, id, currentPassword, newPassword string) error {
	if callerID != id {
		return domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.mailer.SendChangeConfirmation(ctx, user.Email, "password"); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("change confirmation email failed")
	}

	s.log.Info().Str("user_id", user.ID).Msg("password updated")
	return nil
}
