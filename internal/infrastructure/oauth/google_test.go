package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := NewGoogleProvider(Config{
		ClientID:    "client-id",
		RedirectURI: "https://api.example.com/oauth2/callback",
	})

	raw := p.AuthCodeURL("the-state")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-id" {
		t.Errorf("client_id: %s", q.Get("client_id"))
	}
	if q.Get("state") != "the-state" {
		t.Errorf("state: %s", q.Get("state"))
	}
	if q.Get("response_type") != "code" {
		t.Errorf("response_type: %s", q.Get("response_type"))
	}
	if !strings.Contains(q.Get("scope"), "email") {
		t.Errorf("scope: %s", q.Get("scope"))
	}
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.Form.Get("code") != "auth-code" || r.Form.Get("grant_type") != "authorization_code" {
			t.Fatalf("unexpected form: %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"the-access-token"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Config{TokenURL: srv.URL, HTTPClient: srv.Client()})

	token, err := p.Exchange(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token != "the-access-token" {
		t.Errorf("token: %s", token)
	}
}

func TestGoogleProvider_Exchange_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Config{TokenURL: srv.URL, HTTPClient: srv.Client()})

	if _, err := p.Exchange(context.Background(), "stale-code"); err == nil {
		t.Fatal("expected error for invalid_grant")
	}
}

func TestGoogleProvider_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer the-access-token" {
			t.Fatalf("authorization header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"g-123","email":"a@gmail.com","name":"Ada","picture":"https://img/p.png"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Config{UserInfoURL: srv.URL, HTTPClient: srv.Client()})

	profile, err := p.FetchProfile(context.Background(), "the-access-token")
	if err != nil {
		t.Fatalf("fetch profile: %v", err)
	}
	if profile.ID != "g-123" || profile.Email != "a@gmail.com" || profile.Name != "Ada" {
		t.Errorf("profile: %+v", profile)
	}
}

func TestGoogleProvider_FetchProfile_IncompletePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"No Sub"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(Config{UserInfoURL: srv.URL, HTTPClient: srv.Client()})

	if _, err := p.FetchProfile(context.Background(), "tok"); err == nil {
		t.Fatal("expected error for incomplete profile")
	}
}
