package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// Hooks are invoked synchronously at phase transitions and are purely
// observational: they MUST NOT panic, and their behavior never affects the
// outcome of the request they observe.
//
// # Security Considerations
//
// Event types are designed to NEVER include sensitive data:
//   - API keys are NEVER included (stored separately as core.Secret)
//   - Submitted media and report content are NEVER included
//   - Only operational metadata is exposed (method, path, timing, status)
//
// If extending this interface, maintain these security properties. Never add
// fields that could contain API keys, media payloads, or report bodies.
type TelemetryHook interface {
	// OnRequestStart is called when a logical API request begins, before the
	// first attempt.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a logical API request completes, after any
	// retries.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Method    string    // HTTP method
	Path      string    // API path, without query parameters
	RequestID string    // Client-generated or caller-supplied correlator
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Method    string    // HTTP method
	Path      string    // API path, without query parameters
	RequestID string    // Final correlator, preferring the server echo
	Status    int       // HTTP status of the last attempt, 0 on network failure
	Attempts  int       // Total attempts made, including the first
	Start     time.Time // When the request started
	End       time.Time // When the request completed
	Err       error     // Error if the request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
