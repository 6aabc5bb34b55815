package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// AlertRepository persists targeted notifications.
type AlertRepository interface {
	// ListForReceiver returns alerts addressed to any of the given
	// receiver keys (role names or entity codes).
	ListForReceiver(ctx context.Context, receivers []string) ([]*domain.Alert, error)
	Create(ctx context.Context, a *domain.Alert) (*domain.Alert, error)
	Update(ctx context.Context, a *domain.Alert) error
	Delete(ctx context.Context, id string) error
}

// AlertService exposes alert operations.
type AlertService interface {
	// ListAlerts returns unexpired alerts addressed to the caller's role
	// or entity code.
	ListAlerts(ctx context.Context, callerRole, entityCode string) ([]*domain.Alert, error)
	CreateAlert(ctx context.Context, a *domain.Alert) (*domain.Alert, error)
	UpdateAlert(ctx context.Context, a *domain.Alert) error
	DeleteAlert(ctx context.Context, id string) error
}
