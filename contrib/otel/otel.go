// Package otel bridges the SDK's telemetry hook to OpenTelemetry tracing.
//
// Each API request becomes one client span covering all retry attempts,
// carrying the HTTP method, path, status, attempt count, and request
// correlator as attributes.
//
// Usage:
//
//	hook := otel.NewHook()
//	client := acuity.New(apiKey, acuity.WithTelemetry(hook))
package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/acuity-ai/acuity-go/core"
)

// tracerName identifies this instrumentation library.
const tracerName = "github.com/acuity-ai/acuity-go/contrib/otel"

// Hook implements core.TelemetryHook, emitting one span per request.
// Hook is safe for concurrent use.
type Hook struct {
	tracer trace.Tracer

	// spans holds in-flight spans keyed by the request correlator.
	spans sync.Map
}

var _ core.TelemetryHook = (*Hook)(nil)

// Option configures the hook.
type Option func(*config)

type config struct {
	provider trace.TracerProvider
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.provider = tp
		}
	}
}

// NewHook creates a telemetry hook that records request spans.
func NewHook(opts ...Option) *Hook {
	cfg := config{provider: otel.GetTracerProvider()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Hook{tracer: cfg.provider.Tracer(tracerName)}
}

// OnRequestStart opens a client span for the request.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	_, span := h.tracer.Start(context.Background(), e.Method+" "+e.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(
			attribute.String("http.request.method", e.Method),
			attribute.String("url.path", e.Path),
			attribute.String("acuity.request_id", e.RequestID),
		),
	)
	h.spans.Store(e.RequestID, span)
}

// OnRequestEnd closes the request's span, recording the outcome.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	v, ok := h.spans.LoadAndDelete(e.RequestID)
	if !ok {
		return
	}
	span := v.(trace.Span)

	span.SetAttributes(attribute.Int("acuity.attempts", e.Attempts))
	if e.Status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", e.Status))
	}
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}
