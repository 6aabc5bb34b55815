package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

const promosCollection = "promos"

type PromoRepository struct {
	coll *mongo.Collection
}

func NewPromoRepository(db *mongo.Database) *PromoRepository {
	return &PromoRepository{coll: db.Collection(promosCollection)}
}

func (r *PromoRepository) List(ctx context.Context) ([]*domain.Promo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find promos: %w", err)
	}
	defer cur.Close(ctx)

	var promos []*domain.Promo
	if err := cur.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("decode promos: %w", err)
	}
	return promos, nil
}

func (r *PromoRepository) Create(ctx context.Context, p *domain.Promo) (*domain.Promo, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert promo: %w", err)
	}
	return p, nil
}

func (r *PromoRepository) Update(ctx context.Context, p *domain.Promo) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update promo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPromoNotFound
	}
	return nil
}
