package credits

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/transport"
)

func TestGetBalance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/credits" {
			t.Errorf("path = %q, want /v1/credits", r.URL.Path)
		}
		w.Write([]byte(`{"available":420,"reserved":30,"plan":"team","resetsAt":"2025-04-01T00:00:00Z"}`))
	}))
	defer server.Close()

	svc := NewService(transport.New("ak_test", transport.WithBaseURL(server.URL)))
	balance, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if balance.Available != 420 {
		t.Errorf("Available = %d, want 420", balance.Available)
	}
	if balance.Reserved != 30 {
		t.Errorf("Reserved = %d, want 30", balance.Reserved)
	}
	if balance.Plan != "team" {
		t.Errorf("Plan = %q, want team", balance.Plan)
	}
	if balance.ResetsAt.IsZero() {
		t.Error("ResetsAt should be set")
	}
}

func TestGetBalanceUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_api_key","message":"invalid key"}}`))
	}))
	defer server.Close()

	svc := NewService(transport.New("ak_bad", transport.WithBaseURL(server.URL)))
	_, err := svc.Get(context.Background())
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
