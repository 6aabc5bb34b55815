package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// VisitRepository persists agent visits.
type VisitRepository interface {
	List(ctx context.Context, filter MovementFilter) ([]*domain.Visit, error)
	Create(ctx context.Context, v *domain.Visit) (*domain.Visit, error)
	Update(ctx context.Context, v *domain.Visit) error
	Delete(ctx context.Context, id string) error
}

// VisitService exposes role-scoped visit operations.
type VisitService interface {
	ListVisits(ctx context.Context, callerRole, entityCode string) ([]*domain.Visit, error)
	CreateVisit(ctx context.Context, v *domain.Visit) (*domain.Visit, error)
	UpdateVisit(ctx context.Context, v *domain.Visit) error
	DeleteVisit(ctx context.Context, id string) error
}
