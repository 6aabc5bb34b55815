package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// UserRepository persists credential records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindByEntityCode(ctx context.Context, entityCode string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update persists every mutable field of user, keyed by user.ID.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
