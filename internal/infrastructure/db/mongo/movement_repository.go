package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

const movementsCollection = "movements"

// MovementRepository stores sales ledger lines. Several lines share a
// list_number when they belong to one order, so replace and update act on
// the whole group.
type MovementRepository struct {
	coll *mongo.Collection
}

func NewMovementRepository(db *mongo.Database) *MovementRepository {
	return &MovementRepository{coll: db.Collection(movementsCollection)}
}

func (r *MovementRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "list_number", Value: 1}}},
		{Keys: bson.D{{Key: "client_code", Value: 1}}},
		{Keys: bson.D{{Key: "agent_code", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create movement indexes: %w", err)
	}
	return nil
}

func movementFilter(f ports.MovementFilter) bson.M {
	filter := bson.M{}
	if f.ClientCode != "" {
		filter["client_code"] = f.ClientCode
	}
	if f.AgentCode != "" {
		filter["agent_code"] = f.AgentCode
	}
	return filter
}

func (r *MovementRepository) List(ctx context.Context, f ports.MovementFilter) ([]*domain.Movement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "list_number", Value: -1}})
	cur, err := r.coll.Find(ctx, movementFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	defer cur.Close(ctx)

	var movements []*domain.Movement
	if err := cur.All(ctx, &movements); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}
	return movements, nil
}

func (r *MovementRepository) ReplaceByListNumber(ctx context.Context, listNumber int, m *domain.Movement) (int64, error) {
	update := bson.M{"$set": bson.M{
		"date":        m.Date,
		"client_code": m.ClientCode,
		"client_name": m.ClientName,
		"agent_code":  m.AgentCode,
		"brand":       m.Brand,
		"description": m.Description,
		"quantity":    m.Quantity,
		"unit_price":  m.UnitPrice,
		"total":       m.Total,
		"kind":        m.Kind,
	}}
	res, err := r.coll.UpdateMany(ctx, bson.M{"list_number": listNumber}, update)
	if err != nil {
		return 0, fmt.Errorf("replace movements %d: %w", listNumber, err)
	}
	return res.MatchedCount, nil
}

func (r *MovementRepository) UpdateByListNumber(ctx context.Context, listNumber int, patch ports.MovementPatch) (int64, error) {
	set := bson.M{}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Brand != nil {
		set["brand"] = *patch.Brand
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		set["unit_price"] = *patch.UnitPrice
	}
	if patch.Total != nil {
		set["total"] = *patch.Total
	}
	if patch.Kind != nil {
		set["kind"] = *patch.Kind
	}
	if len(set) == 0 {
		// Nothing to change; report matches without a write.
		n, err := r.coll.CountDocuments(ctx, bson.M{"list_number": listNumber})
		if err != nil {
			return 0, fmt.Errorf("count movements %d: %w", listNumber, err)
		}
		return n, nil
	}

	res, err := r.coll.UpdateMany(ctx, bson.M{"list_number": listNumber}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update movements %d: %w", listNumber, err)
	}
	return res.MatchedCount, nil
}
