package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// VisitService exposes role-scoped visit planning operations.
type VisitService struct {
	repo ports.VisitRepository
	log  zerolog.Logger
}

func NewVisitService(repo ports.VisitRepository, log zerolog.Logger) *VisitService {
	return &VisitService{repo: repo, log: log}
}

func (s *VisitService) ListVisits(ctx context.Context, callerRole, entityCode string) ([]*domain.Visit, error) {
	filter, err := scopeFilter(callerRole, entityCode)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

func (s *VisitService) CreateVisit(ctx context.Context, v *domain.Visit) (*domain.Visit, error) {
	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}
	s.log.Info().Str("agent_code", v.AgentCode).Str("client_code", v.ClientCode).Msg("visit created")
	return created, nil
}

func (s *VisitService) UpdateVisit(ctx context.Context, v *domain.Visit) error {
	if err := s.repo.Update(ctx, v); err != nil {
		return fmt.Errorf("update visit %s: %w", v.ID, err)
	}
	return nil
}

func (s *VisitService) DeleteVisit(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete visit %s: %w", id, err)
	}
	return nil
}
