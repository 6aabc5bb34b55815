package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
)

type stubClientRepo struct {
	clients []*domain.Client
}

func (r *stubClientRepo) List(_ context.Context) ([]*domain.Client, error) {
	return r.clients, nil
}

func (r *stubClientRepo) ListByAgentCode(_ context.Context, agentCode string) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, c := range r.clients {
		if c.AgentCode == agentCode {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubClientRepo) FindByCode(_ context.Context, code string) (*domain.Client, error) {
	for _, c := range r.clients {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, domain.ErrClientNotFound
}

func (r *stubClientRepo) Update(_ context.Context, client *domain.Client) error {
	for i, c := range r.clients {
		if c.Code == client.Code {
			r.clients[i] = client
			return nil
		}
	}
	return domain.ErrClientNotFound
}

func clientFixture() *stubClientRepo {
	return &stubClientRepo{clients: []*domain.Client{
		{Code: "CL01", Name: "Alpha", AgentCode: "AG01"},
		{Code: "CL02", Name: "Beta", AgentCode: "AG01"},
		{Code: "CL03", Name: "Gamma", AgentCode: "AG02"},
	}}
}

func TestClientService_ListScoping(t *testing.T) {
	svc := NewClientService(clientFixture(), zerolog.Nop())
	ctx := context.Background()

	all, err := svc.ListClients(ctx, domain.RoleAdmin, "")
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin: expected 3 clients, got %d", len(all))
	}

	book, err := svc.ListClients(ctx, domain.RoleAgent, "AG01")
	if err != nil {
		t.Fatalf("agent list: %v", err)
	}
	if len(book) != 2 {
		t.Errorf("agent AG01: expected 2 clients, got %d", len(book))
	}

	if _, err := svc.ListClients(ctx, domain.RoleClient, "CL01"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("client listing: expected ErrForbidden, got %v", err)
	}
}

func TestClientService_GetClient_OwnRecordOnly(t *testing.T) {
	svc := NewClientService(clientFixture(), zerolog.Nop())
	ctx := context.Background()

	own, err := svc.GetClient(ctx, domain.RoleClient, "CL01", "CL01")
	if err != nil {
		t.Fatalf("own record: %v", err)
	}
	if own.Code != "CL01" {
		t.Errorf("expected CL01, got %s", own.Code)
	}

	if _, err := svc.GetClient(ctx, domain.RoleClient, "CL01", "CL02"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign record: expected ErrForbidden, got %v", err)
	}

	// Agents and admins are not restricted to a single record.
	if _, err := svc.GetClient(ctx, domain.RoleAgent, "AG01", "CL03"); err != nil {
		t.Fatalf("agent read: %v", err)
	}
}
