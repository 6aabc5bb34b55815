package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// AgentRepository persists agent profiles.
type AgentRepository interface {
	List(ctx context.Context) ([]*domain.Agent, error)
	FindByCode(ctx context.Context, code string) (*domain.Agent, error)
	// FindByClientCode locates the agent that owns the given client link,
	// with the clients list filtered down to that single link.
	FindByClientCode(ctx context.Context, clientCode string) (*domain.Agent, error)
	Update(ctx context.Context, agent *domain.Agent) error
}

// AgentService exposes agent operations to the transport layer.
type AgentService interface {
	ListAgents(ctx context.Context) ([]*domain.Agent, error)
	GetAgent(ctx context.Context, code string) (*domain.Agent, error)
	GetAgentForClient(ctx context.Context, clientCode string) (*domain.Agent, error)
	UpdateAgent(ctx context.Context, agent *domain.Agent) error
}
