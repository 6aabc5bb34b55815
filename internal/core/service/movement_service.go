package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// MovementService exposes role-scoped sales ledger operations.
type MovementService struct {
	repo ports.MovementRepository
	log  zerolog.Logger
}

func NewMovementService(repo ports.MovementRepository, log zerolog.Logger) *MovementService {
	return &MovementService{repo: repo, log: log}
}

// scopeFilter maps a caller's role to the repository filter: clients see
// their own ledger, agents their book, admins everything.
func scopeFilter(callerRole, entityCode string) (ports.MovementFilter, error) {
	switch callerRole {
	case domain.RoleAdmin:
		return ports.MovementFilter{}, nil
	case domain.RoleAgent:
		return ports.MovementFilter{AgentCode: entityCode}, nil
	case domain.RoleClient:
		return ports.MovementFilter{ClientCode: entityCode}, nil
	default:
		return ports.MovementFilter{}, domain.ErrForbidden
	}
}

func (s *MovementService) ListMovements(ctx context.Context, callerRole, entityCode string) ([]*domain.Movement, error) {
	filter, err := scopeFilter(callerRole, entityCode)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// ReplaceMovement overwrites every line sharing the list number.
func (s *MovementService) ReplaceMovement(ctx context.Context, listNumber int, m *domain.Movement) error {
	matched, err := s.repo.ReplaceByListNumber(ctx, listNumber, m)
	if err != nil {
		return fmt.Errorf("replace movement %d: %w", listNumber, err)
	}
	if matched == 0 {
		return domain.ErrMovementNotFound
	}
	s.log.Info().Int("list_number", listNumber).Int64("matched", matched).Msg("movement replaced")
	return nil
}

// UpdateMovement patches every line sharing the list number.
func (s *MovementService) UpdateMovement(ctx context.Context, listNumber int, patch ports.MovementPatch) error {
	matched, err := s.repo.UpdateByListNumber(ctx, listNumber, patch)
	if err != nil {
		return fmt.Errorf("update movement %d: %w", listNumber, err)
	}
	if matched == 0 {
		return domain.ErrMovementNotFound
	}
	s.log.Info().Int("list_number", listNumber).Int64("matched", matched).Msg("movement updated")
	return nil
}
