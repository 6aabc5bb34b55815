package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// ClientRepository persists client profiles.
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	ListByAgentCode(ctx context.Context, agentCode string) ([]*domain.Client, error)
	FindByCode(ctx context.Context, code string) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
}

// ClientService exposes client operations. Access scoping happens here:
// agents see their own book, a client sees only itself.
type ClientService interface {
	// ListClients returns all clients for admins and the agent's own book
	// for agents.
	ListClients(ctx context.Context, callerRole, entityCode string) ([]*domain.Client, error)
	// GetClient returns the client; a caller with the client role may only
	// read its own record.
	GetClient(ctx context.Context, callerRole, entityCode, code string) (*domain.Client, error)
	UpdateClient(ctx context.Context, client *domain.Client) error
}
