package core

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for classification. API failures wrap exactly one of these,
// so callers can branch with errors.Is without inspecting status codes.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("rate limited")
	// ErrRequestFailed classifies 4xx statuses without a dedicated sentinel.
	ErrRequestFailed = errors.New("request failed")
	ErrServer        = errors.New("server error")
	ErrNetwork       = errors.New("network error")
	ErrDecode        = errors.New("decode error")
)

// Client-side validation errors, raised before any network call.
var (
	ErrMediaRequired = errors.New("media required: set exactly one of MediaRef.FileID or MediaRef.URL")
	ErrJobIDRequired = errors.New("job id required: pass the id from a created or fetched job")
	ErrIDRequired    = errors.New("id required")
)

// APIError represents a non-2xx API response with full context.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	Details   map[string]any

	// RetryAfter is the server-provided retry hint from a 429 response,
	// zero when absent.
	RetryAfter time.Duration

	// Err is the classification sentinel.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("acuity: %s (status=%d, code=%s, request_id=%s)",
			e.Message, e.Status, e.Code, e.RequestID)
	}
	return fmt.Sprintf("acuity: %s (status=%d, code=%s)", e.Message, e.Status, e.Code)
}

// Unwrap returns the classification sentinel for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// JobFailedError is returned when a job reaches the failed terminal state,
// or when a wait exhausts its timeout without observing a terminal event.
type JobFailedError struct {
	JobID     string
	Code      string
	Message   string
	RequestID string

	// Timeout is set when the error represents a wait that timed out
	// rather than a server-reported failure.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *JobFailedError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("acuity: job %s did not complete within %s", e.JobID, e.Timeout)
	}
	return fmt.Sprintf("acuity: job %s failed: %s (code=%s)", e.JobID, e.Message, e.Code)
}

// TimedOut reports whether the failure represents an exhausted wait timeout.
func (e *JobFailedError) TimedOut() bool {
	return e.Timeout > 0
}

// JobCanceledError is returned when a job reaches the canceled terminal state.
type JobCanceledError struct {
	JobID     string
	RequestID string
}

// Error implements the error interface.
func (e *JobCanceledError) Error() string {
	return fmt.Sprintf("acuity: job %s was canceled", e.JobID)
}

// StreamError is returned when the SSE reconnection budget is exhausted.
// LastEventID allows a caller to resume from where the stream dropped.
type StreamError struct {
	JobID       string
	LastEventID string
	Retries     int
	Err         error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf("acuity: event stream for job %s failed after %d retries (last_event_id=%q): %v",
		e.JobID, e.Retries, e.LastEventID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}
