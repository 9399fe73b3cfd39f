// Package core provides the shared types, error taxonomy, and policies for
// the Acuity Go SDK.
//
// Acuity is a behavioral-analysis API: callers submit media for asynchronous
// processing and receive an immutable [Report] once the server-side pipeline
// completes. The core package defines the fundamental abstractions the rest
// of the SDK builds on.
//
// # Jobs and Events
//
// A [Job] is a server-owned record for one asynchronous unit of work. The
// client never mutates a job; it observes successive snapshots until the job
// reaches a terminal status (succeeded, failed, or canceled). Terminal
// statuses are absorbing:
//
//	if job.Status.Terminal() {
//	    // no further transitions will occur
//	}
//
// Progress is delivered over Server-Sent-Events. The transport parses raw
// frames into [SSEEvent] values; the jobs package normalizes them into
// [JobEvent] values delivered over a [JobStream]:
//
//	for ev := range stream.Events {
//	    switch ev.Type {
//	    case core.EventStage:
//	        fmt.Printf("%s %.0f%%\n", ev.Stage, ev.Progress*100)
//	    case core.EventTerminal:
//	        fmt.Println("done:", ev.Job.Status)
//	    }
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure modes:
//   - [ErrUnauthorized]: Invalid or missing API key (401/403)
//   - [ErrValidation]: Request rejected by server-side validation (422)
//   - [ErrRateLimited]: Rate limit exceeded (429)
//   - [ErrBadRequest]: Invalid request parameters (400)
//   - [ErrServer]: Server error (5xx)
//   - [ErrNetwork]: Network connectivity issues
//   - [ErrDecode]: Response parsing failed
//
// API failures are returned as [*APIError] wrapping one of the sentinels,
// so callers branch with errors.Is:
//
//	if errors.Is(err, core.ErrRateLimited) {
//	    // back off
//	}
//
// Job outcomes surface as dedicated types: [*JobFailedError] (failed terminal
// state or wait timeout), [*JobCanceledError], and [*StreamError] (event
// stream reconnection budget exhausted). Cancellation surfaces as the
// standard context errors; check errors.Is(err, context.Canceled) to
// distinguish "I canceled this" from a real failure.
//
// # Retry Policy
//
// [RetryPolicy] governs transport retries. The default policy retries
// transient errors (rate limits, 5xx, network failures) with exponential
// backoff and jitter, honoring server-provided Retry-After hints:
//
//	policy := core.NewRetryPolicy(core.RetryConfig{
//	    MaxRetries: 5,
//	    BaseDelay:  500 * time.Millisecond,
//	})
//
// # Telemetry
//
// Implement [TelemetryHook] to observe request lifecycle events. Hooks only
// ever see operational metadata; API keys and payload content are never
// exposed to them.
//
// # Thread Safety
//
// All values in this package are either immutable after construction or
// owned by a single operation. [JobStream] and [SSEStream] channels may be
// read by one goroutine at a time.
package core
