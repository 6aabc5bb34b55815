package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// AgentService exposes agent profile operations.
type AgentService struct {
	repo ports.AgentRepository
	log  zerolog.Logger
}

func NewAgentService(repo ports.AgentRepository, log zerolog.Logger) *AgentService {
	return &AgentService{repo: repo, log: log}
}

func (s *AgentService) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	return s.repo.List(ctx)
}

func (s *AgentService) GetAgent(ctx context.Context, code string) (*domain.Agent, error) {
	return s.repo.FindByCode(ctx, code)
}

// GetAgentForClient resolves the agent owning a client's entity code.
func (s *AgentService) GetAgentForClient(ctx context.Context, clientCode string) (*domain.Agent, error) {
	return s.repo.FindByClientCode(ctx, clientCode)
}

func (s *AgentService) UpdateAgent(ctx context.Context, agent *domain.Agent) error {
	if err := s.repo.Update(ctx, agent); err != nil {
		return fmt.Errorf("update agent %s: %w", agent.Code, err)
	}
	s.log.Info().Str("agent_code", agent.Code).Msg("agent updated")
	return nil
}
