package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const visitsCollection = "visits"

type VisitRepository struct {
	coll *mongo.Collection
}

func NewVisitRepository(db *mongo.Database) *VisitRepository {
	return &VisitRepository{coll: db.Collection(visitsCollection)}
}

func (r *VisitRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_code", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "client_code", Value: 1}, {Key: "date", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create visit indexes: %w", err)
	}
	return nil
}

func (r *VisitRepository) List(ctx context.Context, f ports.MovementFilter) ([]*domain.Visit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll.Find(ctx, movementFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find visits: %w", err)
	}
	defer cur.Close(ctx)

	var visits []*domain.Visit
	if err := cur.All(ctx, &visits); err != nil {
		return nil, fmt.Errorf("decode visits: %w", err)
	}
	return visits, nil
}

func (r *VisitRepository) Create(ctx context.Context, v *domain.Visit) (*domain.Visit, error) {
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.coll.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert visit: %w", err)
	}
	return v, nil
}

func (r *VisitRepository) Update(ctx context.Context, v *domain.Visit) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return fmt.Errorf("update visit: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVisitNotFound
	}
	return nil
}

func (r *VisitRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVisitNotFound
	}
	return nil
}
