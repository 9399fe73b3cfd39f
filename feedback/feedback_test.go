package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acuity-ai/acuity-go/transport"
)

func newTestService(url string) *Service {
	return NewService(transport.New("ak_test", transport.WithBaseURL(url)))
}

func TestSubmitFeedback(t *testing.T) {
	var gotIdemKey string
	var gotBody Feedback
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/feedback" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotIdemKey = r.Header.Get("Idempotency-Key")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"fb_1","reportId":"rep_1","createdAt":"2025-03-01T11:00:00Z"}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	receipt, err := svc.Submit(context.Background(), &Feedback{
		ReportID: "rep_1",
		Rating:   4,
		Comment:  "accurate but verbose",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if gotBody.Rating != 4 || gotBody.Comment != "accurate but verbose" {
		t.Errorf("body = %+v", gotBody)
	}
	if gotIdemKey == "" {
		t.Error("submit should carry an idempotency key so it can be retried")
	}
	if receipt.ID != "fb_1" {
		t.Errorf("ID = %q, want fb_1", receipt.ID)
	}
	if receipt.ReportID != "rep_1" {
		t.Errorf("ReportID = %q, want rep_1", receipt.ReportID)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	svc := newTestService("http://unused.invalid")

	tests := []struct {
		name string
		fb   *Feedback
		want error
	}{
		{"nil", nil, ErrReportIDRequired},
		{"missing report id", &Feedback{Rating: 3}, ErrReportIDRequired},
		{"rating too low", &Feedback{ReportID: "rep_1", Rating: 0}, ErrRatingOutOfRange},
		{"rating too high", &Feedback{ReportID: "rep_1", Rating: 6}, ErrRatingOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.fb)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubmitFeedbackRatingBounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"fb_1","reportId":"rep_1","createdAt":"2025-03-01T11:00:00Z"}`))
	}))
	defer server.Close()

	svc := newTestService(server.URL)
	for _, rating := range []int{1, 5} {
		if _, err := svc.Submit(context.Background(), &Feedback{ReportID: "rep_1", Rating: rating}); err != nil {
			t.Errorf("rating %d: %v", rating, err)
		}
	}
}
