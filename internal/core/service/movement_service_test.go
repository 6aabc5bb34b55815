package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type stubMovementRepo struct {
	movements []*domain.Movement
}

func (r *stubMovementRepo) List(_ context.Context, filter ports.MovementFilter) ([]*domain.Movement, error) {
	var out []*domain.Movement
	for _, m := range r.movements {
		if filter.ClientCode != "" && m.ClientCode != filter.ClientCode {
			continue
		}
		if filter.AgentCode != "" && m.AgentCode != filter.AgentCode {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMovementRepo) ReplaceByListNumber(_ context.Context, listNumber int, m *domain.Movement) (int64, error) {
	var matched int64
	for i, old := range r.movements {
		if old.ListNumber == listNumber {
			clone := *m
			clone.ListNumber = listNumber
			r.movements[i] = &clone
			matched++
		}
	}
	return matched, nil
}

func (r *stubMovementRepo) UpdateByListNumber(_ context.Context, listNumber int, patch ports.MovementPatch) (int64, error) {
	var matched int64
	for _, m := range r.movements {
		if m.ListNumber != listNumber {
			continue
		}
		if patch.Brand != nil {
			m.Brand = *patch.Brand
		}
		if patch.Total != nil {
			m.Total = *patch.Total
		}
		matched++
	}
	return matched, nil
}

func movementFixture() *stubMovementRepo {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &stubMovementRepo{movements: []*domain.Movement{
		{ListNumber: 1, Date: date, ClientCode: "CL01", AgentCode: "AG01", Brand: "Acme", Total: 100},
		{ListNumber: 1, Date: date, ClientCode: "CL01", AgentCode: "AG01", Brand: "Acme", Total: 50},
		{ListNumber: 2, Date: date, ClientCode: "CL02", AgentCode: "AG01", Brand: "Bolt", Total: 200},
		{ListNumber: 3, Date: date, ClientCode: "CL03", AgentCode: "AG02", Brand: "Bolt", Total: 300},
	}}
}

func TestMovementService_ListScoping(t *testing.T) {
	svc := NewMovementService(movementFixture(), zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		role, code string
		want       int
	}{
		{domain.RoleAdmin, "", 4},
		{domain.RoleAgent, "AG01", 3},
		{domain.RoleAgent, "AG02", 1},
		{domain.RoleClient, "CL01", 2},
	}
	for _, tc := range cases {
		got, err := svc.ListMovements(ctx, tc.role, tc.code)
		if err != nil {
			t.Fatalf("%s/%s: %v", tc.role, tc.code, err)
		}
		if len(got) != tc.want {
			t.Errorf("%s/%s: expected %d movements, got %d", tc.role, tc.code, tc.want, len(got))
		}
	}

	if _, err := svc.ListMovements(ctx, domain.RoleGuest, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("guest listing: expected ErrForbidden, got %v", err)
	}
}

func TestMovementService_ReplaceTouchesEveryLine(t *testing.T) {
	repo := movementFixture()
	svc := NewMovementService(repo, zerolog.Nop())

	err := svc.ReplaceMovement(context.Background(), 1, &domain.Movement{
		ClientCode: "CL01", AgentCode: "AG01", Brand: "Nova", Total: 75,
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	for _, m := range repo.movements {
		if m.ListNumber == 1 && m.Brand != "Nova" {
			t.Errorf("line not replaced: %+v", m)
		}
	}
}

func TestMovementService_ReplaceUnknownListNumber(t *testing.T) {
	svc := NewMovementService(movementFixture(), zerolog.Nop())

	err := svc.ReplaceMovement(context.Background(), 99, &domain.Movement{})
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementService_UpdatePatchesEveryLine(t *testing.T) {
	repo := movementFixture()
	svc := NewMovementService(repo, zerolog.Nop())

	brand := "Nova"
	if err := svc.UpdateMovement(context.Background(), 1, ports.MovementPatch{Brand: &brand}); err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, m := range repo.movements {
		if m.ListNumber == 1 && m.Brand != "Nova" {
			t.Errorf("line not patched: %+v", m)
		}
		if m.ListNumber != 1 && m.Brand == "Nova" {
			t.Errorf("unrelated line patched: %+v", m)
		}
	}

	if err := svc.UpdateMovement(context.Background(), 99, ports.MovementPatch{Brand: &brand}); !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}
