package ports

import (
	"context"
	"time"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// MovementFilter narrows a movement listing. Empty fields are ignored.
type MovementFilter struct {
	ClientCode string
	AgentCode  string
}

// MovementPatch carries the fields a partial update may touch. Nil
// pointers leave the stored value untouched.
type MovementPatch struct {
	Date        *time.Time
	Brand       *string
	Description *string
	Quantity    *float64
	UnitPrice   *float64
	Total       *float64
	Kind        *string
}

// MovementRepository persists sales ledger lines. Replace and Update act
// on every line sharing the list number and report how many matched.
type MovementRepository interface {
	List(ctx context.Context, filter MovementFilter) ([]*domain.Movement, error)
	ReplaceByListNumber(ctx context.Context, listNumber int, m *domain.Movement) (int64, error)
	UpdateByListNumber(ctx context.Context, listNumber int, patch MovementPatch) (int64, error)
}

// MovementService exposes role-scoped movement operations.
type MovementService interface {
	// ListMovements scopes the listing by role: clients see their own
	// ledger, agents their book, admins everything.
	ListMovements(ctx context.Context, callerRole, entityCode string) ([]*domain.Movement, error)
	ReplaceMovement(ctx context.Context, listNumber int, m *domain.Movement) error
	UpdateMovement(ctx context.Context, listNumber int, patch MovementPatch) error
}
