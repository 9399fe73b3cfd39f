package acuity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/reports"
)

func TestNewWiresAllServices(t *testing.T) {
	client := New("ak_test")

	if client.Jobs == nil {
		t.Error("Jobs service is nil")
	}
	if client.Reports == nil {
		t.Error("Reports service is nil")
	}
	if client.Files == nil {
		t.Error("Files service is nil")
	}
	if client.Credits == nil {
		t.Error("Credits service is nil")
	}
	if client.Entities == nil {
		t.Error("Entities service is nil")
	}
	if client.Feedback == nil {
		t.Error("Feedback service is nil")
	}
	if client.Health == nil {
		t.Error("Health service is nil")
	}
	if client.Transport() == nil {
		t.Error("Transport() is nil")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "ak_from_env")

	client, err := NewFromEnv()
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if client == nil {
		t.Fatal("client is nil")
	}
}

func TestNewFromEnvMissingKey(t *testing.T) {
	t.Setenv(DefaultAPIKeyEnvVar, "")

	_, err := NewFromEnv()
	if !errors.Is(err, ErrAPIKeyNotFound) {
		t.Fatalf("err = %v, want ErrAPIKeyNotFound", err)
	}
}

func TestClientServicesShareTransport(t *testing.T) {
	var gotKeys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeys = append(gotKeys, r.Header.Get("X-Api-Key"))
		switch r.URL.Path {
		case "/v1/health":
			w.Write([]byte(`{"status":"ok"}`))
		case "/v1/credits":
			w.Write([]byte(`{"available":10,"reserved":0}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := New("ak_shared", WithBaseURL(server.URL))

	if _, err := client.Health.Check(context.Background()); err != nil {
		t.Fatalf("Health.Check: %v", err)
	}
	if _, err := client.Credits.Get(context.Background()); err != nil {
		t.Fatalf("Credits.Get: %v", err)
	}

	for _, key := range gotKeys {
		if key != "ak_shared" {
			t.Errorf("X-Api-Key = %q, want ak_shared", key)
		}
	}
}

func TestClientErrorClassificationSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_api_key","message":"invalid key"}}`))
	}))
	defer server.Close()

	client := New("ak_bad", WithBaseURL(server.URL))

	_, err := client.Reports.Create(context.Background(), &reports.CreateRequest{
		Media: reports.MediaRef{FileID: "file_1"},
	})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}

	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("err should be an *core.APIError")
	}
	if apiErr.Code != "invalid_api_key" {
		t.Errorf("Code = %q, want invalid_api_key", apiErr.Code)
	}
}
