package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acuity-ai/acuity-go/transport"
)

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" {
			t.Errorf("path = %q, want /v1/health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok","version":"2025.03.1"}`))
	}))
	defer server.Close()

	svc := NewService(transport.New("ak_test", transport.WithBaseURL(server.URL)))
	status, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if !status.OK() {
		t.Error("OK() = false, want true")
	}
	if status.Version != "2025.03.1" {
		t.Errorf("Version = %q", status.Version)
	}
}

func TestCheckDegraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"degraded"}`))
	}))
	defer server.Close()

	svc := NewService(transport.New("ak_test", transport.WithBaseURL(server.URL)))
	status, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if status.OK() {
		t.Error("OK() = true, want false for degraded")
	}
}
