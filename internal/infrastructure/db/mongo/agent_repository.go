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

const agentsCollection = "agents"

// AgentRepository stores agent profiles. Documents embed the client book
// as an array of {code, name} links; _id is the string agent record ID.
type AgentRepository struct {
	coll *mongo.Collection
}

func NewAgentRepository(db *mongo.Database) *AgentRepository {
	return &AgentRepository{coll: db.Collection(agentsCollection)}
}

func (r *AgentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "clients.code", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create agent indexes: %w", err)
	}
	return nil
}

func (r *AgentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find agents: %w", err)
	}
	defer cur.Close(ctx)

	var agents []*domain.Agent
	if err := cur.All(ctx, &agents); err != nil {
		return nil, fmt.Errorf("decode agents: %w", err)
	}
	return agents, nil
}

func (r *AgentRepository) FindByCode(ctx context.Context, code string) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&agent); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("find agent: %w", err)
	}
	return &agent, nil
}

// FindByClientCode locates the agent owning the client link, projecting the
// clients array down to the single matching entry.
func (r *AgentRepository) FindByClientCode(ctx context.Context, clientCode string) (*domain.Agent, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"code":  1,
		"name":  1,
		"email": 1,
		"phone": 1,
		"clients": bson.M{
			"$elemMatch": bson.M{"code": clientCode},
		},
	})

	var agent domain.Agent
	if err := r.coll.FindOne(ctx, bson.M{"clients.code": clientCode}, opts).Decode(&agent); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("find agent by client: %w", err)
	}
	return &agent, nil
}

func (r *AgentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	update := bson.M{"$set": bson.M{
		"name":    agent.Name,
		"email":   agent.Email,
		"phone":   agent.Phone,
		"clients": agent.Clients,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"code": agent.Code}, update)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}
