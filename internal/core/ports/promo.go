package ports

import (
	"context"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

// PromoRepository persists promotional campaigns.
type PromoRepository interface {
	List(ctx context.Context) ([]*domain.Promo, error)
	Create(ctx context.Context, p *domain.Promo) (*domain.Promo, error)
	Update(ctx context.Context, p *domain.Promo) error
}

// PromoService exposes promo operations; mutation is admin-only and
// enforced at the route level.
type PromoService interface {
	ListPromos(ctx context.Context) ([]*domain.Promo, error)
	CreatePromo(ctx context.Context, p *domain.Promo) (*domain.Promo, error)
	UpdatePromo(ctx context.Context, p *domain.Promo) error
}
