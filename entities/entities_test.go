package entities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/transport"
)

func newTestService(url string) *Service {
	return NewService(transport.New("ak_test", transport.WithBaseURL(url)))
}

func TestListEntities(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"data": [
				{"id":"ent_1","displayName":"Subject A","kind":"person","reportCount":4},
				{"id":"ent_2","kind":"person","reportCount":1}
			],
			"hasMore": false
		}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	list, err := svc.ListEntities(context.Background(), ListOptions{Limit: 20})
	if err != nil {
		t.Fatalf("ListEntities: %v", err)
	}

	if !strings.Contains(gotQuery, "limit=20") {
		t.Errorf("query = %q, want limit=20", gotQuery)
	}
	if len(list.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(list.Data))
	}
	if list.Data[0].DisplayName != "Subject A" {
		t.Errorf("DisplayName = %q", list.Data[0].DisplayName)
	}
	if list.Data[0].ReportCount != 4 {
		t.Errorf("ReportCount = %d, want 4", list.Data[0].ReportCount)
	}
}

func TestGetEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/entities/ent_1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"ent_1","displayName":"Subject A","reportCount":4}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	entity, err := svc.Get(context.Background(), "ent_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entity.ID != "ent_1" {
		t.Errorf("ID = %q, want ent_1", entity.ID)
	}

	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, core.ErrIDRequired) {
		t.Errorf("err = %v, want ErrIDRequired", err)
	}
}

func TestUpdateEntity(t *testing.T) {
	var gotMethod, gotIdemKey string
	var gotBody UpdateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotIdemKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"id":"ent_1","displayName":"Candidate 7","reportCount":4}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	entity, err := svc.Update(context.Background(), "ent_1", &UpdateRequest{DisplayName: "Candidate 7"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotIdemKey == "" {
		t.Error("update should carry an idempotency key so it can be retried")
	}
	if gotBody.DisplayName != "Candidate 7" {
		t.Errorf("body displayName = %q", gotBody.DisplayName)
	}
	if entity.DisplayName != "Candidate 7" {
		t.Errorf("DisplayName = %q", entity.DisplayName)
	}
}

func TestDeleteEntity(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"id":"ent_1","deleted":true}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	if err := svc.Delete(context.Background(), "ent_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/v1/entities/ent_1" {
		t.Errorf("request = %s %s, want DELETE /v1/entities/ent_1", gotMethod, gotPath)
	}

	if err := svc.Delete(context.Background(), ""); !errors.Is(err, core.ErrIDRequired) {
		t.Errorf("err = %v, want ErrIDRequired", err)
	}
}
