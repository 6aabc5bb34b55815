package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// UserPatch carries the admin-editable fields of a credential record.
// Nil pointers leave the stored value untouched.
type UserPatch struct {
	Role       *string
	EntityCode *string
	EntityName *string
	Avatar     *string
}

// UserService covers user administration and self-service credential
// changes.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// UpdateUser applies an admin patch. Assigning a role requires
	// callerRole == admin; role and entity code change together so a
	// record never holds a stale pairing.
	UpdateUser(ctx context.Context, callerRole, id string, patch UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// UpdateEmail re-verifies the current credentials before switching the
	// address. callerID must match id.
	UpdateEmail(ctx context.Context, callerID, id, currentEmail, currentPassword, newEmail string) (*domain.User, error)
	// UpdateUserPassword re-verifies the current password and enforces the
	// password policy on the replacement.
	UpdateUserPassword(ctx context.Context, callerID, id, currentPassword, newPassword string) error
}
