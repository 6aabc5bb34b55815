package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// ClientService exposes client profile operations with role scoping.
type ClientService struct {
	repo ports.ClientRepository
	log  zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

// ListClients returns every client for admins and the agent's own book for
// agents. Client-role callers have no listing.
func (s *ClientService) ListClients(ctx context.Context, callerRole, entityCode string) ([]*domain.Client, error) {
	switch callerRole {
	case domain.RoleAdmin:
		return s.repo.List(ctx)
	case domain.RoleAgent:
		return s.repo.ListByAgentCode(ctx, entityCode)
	default:
		return nil, domain.ErrForbidden
	}
}

// GetClient returns a client record. A caller with the client role may
// only read its own record.
func (s *ClientService) GetClient(ctx context.Context, callerRole, entityCode, code string) (*domain.Client, error) {
	if callerRole == domain.RoleClient && entityCode != code {
		return nil, domain.ErrForbidden
	}
	return s.repo.FindByCode(ctx, code)
}

func (s *ClientService) UpdateClient(ctx context.Context, client *domain.Client) error {
	if err := s.repo.Update(ctx, client); err != nil {
		return fmt.Errorf("update client %s: %w", client.Code, err)
	}
	s.log.Info().Str("client_code", client.Code).Msg("client updated")
	return nil
}
