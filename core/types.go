// Package core provides the shared types, errors, and policies for the Acuity SDK.
package core

import (
	"encoding/json"
	"net/http"
	"time"
)

// JobStatus represents the lifecycle state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusSucceeded JobStatus = "succeeded"
	StatusFailed    JobStatus = "failed"
	StatusCanceled  JobStatus = "canceled"
)

// Terminal reports whether the status is absorbing: once a job reaches a
// terminal status it never transitions again.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Stage represents a phase of the server-side analysis pipeline.
// Stages are informational; new stages may appear without an SDK update.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageAnalyzing  Stage = "analyzing"
	StageScoring    Stage = "scoring"
	StageRendering  Stage = "rendering"
)

// JobType identifies the kind of work a job performs.
type JobType string

// JobTypeReportGenerate is the job type for report generation.
const JobTypeReportGenerate JobType = "report.generate"

// JobError describes why a job reached the failed status.
type JobError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable,omitempty"`
}

// Job is a server-owned record for one asynchronous unit of work.
// The client never mutates a Job; it only observes successive snapshots.
type Job struct {
	ID        string    `json:"id"`
	Type      JobType   `json:"type"`
	Status    JobStatus `json:"status"`
	Stage     Stage     `json:"stage,omitempty"`
	Progress  float64   `json:"progress,omitempty"`
	ReportID  string    `json:"reportId,omitempty"`
	Error     *JobError `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	RequestID string    `json:"requestId,omitempty"`
}

// SSEEvent is one parsed Server-Sent-Events frame. Data carries the payload
// when it parsed as JSON; Raw always preserves the assembled text.
type SSEEvent struct {
	// ID is the frame's resumption token, replayed via Last-Event-ID.
	ID string

	// Event is the frame's event type. Defaults to "message" when absent.
	Event string

	// Data is the frame payload as raw JSON bytes when the payload parsed
	// as JSON, nil otherwise.
	Data json.RawMessage

	// Raw is the assembled data payload text, always populated.
	Raw string
}

// Well-known SSE event types on the job event stream.
const (
	SSEEventStatus    = "status"
	SSEEventStage     = "stage"
	SSEEventTerminal  = "terminal"
	SSEEventHeartbeat = "heartbeat"
	SSEEventError     = "error"
	SSEEventLog       = "log"
	SSEEventMessage   = "message"
)

// JobEventType discriminates the normalized job event union.
type JobEventType string

const (
	EventStatus   JobEventType = "status"
	EventStage    JobEventType = "stage"
	EventTerminal JobEventType = "terminal"
	EventLog      JobEventType = "log"
)

// JobEvent is a normalized job-lifecycle event derived from one SSE frame.
// A terminal event is always the last event of a stream; heartbeat frames
// never produce a JobEvent.
type JobEvent struct {
	Type JobEventType

	// Job is the job snapshot carried by status, stage, and terminal events.
	Job *Job

	// Stage and Progress are set on stage events.
	Stage    Stage
	Progress float64

	// Message and Timestamp are set on log events.
	Message   string
	Timestamp time.Time
}

// Terminal reports whether the event marks the end of the job lifecycle.
func (e JobEvent) Terminal() bool {
	return e.Type == EventTerminal
}

// Response wraps the outcome of one successful transport request.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// RequestID is the request correlator, preferring the server-echoed
	// header over the client-generated value.
	RequestID string

	// Header holds the raw response headers.
	Header http.Header

	// Body is the raw response body.
	Body []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &APIError{
			Status:    r.Status,
			RequestID: r.RequestID,
			Message:   err.Error(),
			Err:       ErrDecode,
		}
	}
	return nil
}
