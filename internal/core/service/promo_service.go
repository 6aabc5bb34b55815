package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

// PromoService exposes promotional campaign operations.
type PromoService struct {
	repo ports.PromoRepository
	log  zerolog.Logger
}

func NewPromoService(repo ports.PromoRepository, log zerolog.Logger) *PromoService {
	return &PromoService{repo: repo, log: log}
}

func (s *PromoService) ListPromos(ctx context.Context) ([]*domain.Promo, error) {
	return s.repo.List(ctx)
}

func (s *PromoService) CreatePromo(ctx context.Context, p *domain.Promo) (*domain.Promo, error) {
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create promo: %w", err)
	}
	s.log.Info().Str("promo", created.Name).Msg("promo created")
	return created, nil
}

func (s *PromoService) UpdatePromo(ctx context.Context, p *domain.Promo) error {
	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("update promo %s: %w", p.ID, err)
	}
	return nil
}
