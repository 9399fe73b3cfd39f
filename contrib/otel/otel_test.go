package otel

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/acuity-ai/acuity-go/core"
)

func newTestHook() (*Hook, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return NewHook(WithTracerProvider(provider)), exporter
}

func TestHookRecordsSuccessSpan(t *testing.T) {
	hook, exporter := newTestHook()

	start := time.Now()
	hook.OnRequestStart(core.RequestStartEvent{
		Method:    "GET",
		Path:      "/v1/jobs/job_1",
		RequestID: "req_1",
		Start:     start,
	})
	hook.OnRequestEnd(core.RequestEndEvent{
		Method:    "GET",
		Path:      "/v1/jobs/job_1",
		RequestID: "req_1",
		Status:    200,
		Attempts:  1,
		Start:     start,
		End:       start.Add(120 * time.Millisecond),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}

	span := spans[0]
	if span.Name != "GET /v1/jobs/job_1" {
		t.Errorf("Name = %q", span.Name)
	}
	if span.Status.Code != codes.Ok {
		t.Errorf("Status = %v, want Ok", span.Status.Code)
	}

	attrs := map[string]any{}
	for _, kv := range span.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["http.response.status_code"] != int64(200) {
		t.Errorf("status attribute = %v, want 200", attrs["http.response.status_code"])
	}
	if attrs["acuity.attempts"] != int64(1) {
		t.Errorf("attempts attribute = %v, want 1", attrs["acuity.attempts"])
	}
	if attrs["acuity.request_id"] != "req_1" {
		t.Errorf("request id attribute = %v, want req_1", attrs["acuity.request_id"])
	}
}

func TestHookRecordsErrorSpan(t *testing.T) {
	hook, exporter := newTestHook()

	start := time.Now()
	hook.OnRequestStart(core.RequestStartEvent{
		Method:    "POST",
		Path:      "/v1/reports",
		RequestID: "req_2",
		Start:     start,
	})
	hook.OnRequestEnd(core.RequestEndEvent{
		Method:    "POST",
		Path:      "/v1/reports",
		RequestID: "req_2",
		Status:    500,
		Attempts:  4,
		Start:     start,
		End:       start.Add(time.Second),
		Err:       errors.New("server error"),
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("Status = %v, want Error", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("span should carry a recorded error event")
	}
}

func TestHookIgnoresUnpairedEnd(t *testing.T) {
	hook, exporter := newTestHook()

	// Must not panic or export anything.
	hook.OnRequestEnd(core.RequestEndEvent{RequestID: "req_unknown"})

	if spans := exporter.GetSpans(); len(spans) != 0 {
		t.Errorf("spans = %d, want 0", len(spans))
	}
}
