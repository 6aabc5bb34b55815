package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

const clientsCollection = "clients"

type ClientRepository struct {
	coll *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(clientsCollection)}
}

func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "agent_code", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create client indexes: %w", err)
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *ClientRepository) ListByAgentCode(ctx context.Context, agentCode string) ([]*domain.Client, error) {
	return r.findMany(ctx, bson.M{"agent_code": agentCode})
}

func (r *ClientRepository) findMany(ctx context.Context, filter bson.M) ([]*domain.Client, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	defer cur.Close(ctx)

	var clients []*domain.Client
	if err := cur.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	return clients, nil
}

func (r *ClientRepository) FindByCode(ctx context.Context, code string) (*domain.Client, error) {
	var client domain.Client
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	update := bson.M{"$set": bson.M{
		"name":       client.Name,
		"address":    client.Address,
		"city":       client.City,
		"province":   client.Province,
		"agent_code": client.AgentCode,
		"email":      client.Email,
		"phone":      client.Phone,
		"vat_number": client.VATNumber,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"code": client.Code}, update)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}
