package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

func TestTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", 0, 0); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokenService_DefaultTTLs(t *testing.T) {
	svc, err := NewTokenService("secret", 0, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if svc.SessionTTL() != 7*24*time.Hour {
		t.Errorf("session ttl: got %v", svc.SessionTTL())
	}
	if svc.VerificationTTL() != 24*time.Hour {
		t.Errorf("verification ttl: got %v", svc.VerificationTTL())
	}
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour, time.Hour)

	token, err := svc.Issue("user_1", ports.PurposeSession, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := svc.Verify(token, ports.PurposeSession)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != "user_1" {
		t.Errorf("expected user_1, got %s", id)
	}
}

func TestTokenService_RejectsWrongPurpose(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour, time.Hour)

	token, _ := svc.Issue("user_1", ports.PurposeVerifyEmail, time.Hour)
	if _, err := svc.Verify(token, ports.PurposeSession); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour, time.Hour)

	token, _ := svc.Issue("user_1", ports.PurposeSession, -time.Minute)
	if _, err := svc.Verify(token, ports.PurposeSession); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	issuer, _ := NewTokenService("secret-a", time.Hour, time.Hour)
	verifier, _ := NewTokenService("secret-b", time.Hour, time.Hour)

	token, _ := issuer.Issue("user_1", ports.PurposeSession, time.Hour)
	if _, err := verifier.Verify(token, ports.PurposeSession); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc, _ := NewTokenService("secret", time.Hour, time.Hour)
	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.Verify(token, ports.PurposeSession); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
