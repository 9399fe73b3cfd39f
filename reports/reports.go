// Package reports creates analysis jobs and fetches their report artifacts.
package reports

import (
	"context"
	"net/http"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/jobs"
	"github.com/acuity-ai/acuity-go/transport"
)

// reportsPath is the API endpoint for reports.
const reportsPath = "/v1/reports"

// MediaRef identifies the media to analyze: either a previously uploaded
// file or a fetchable URL. Exactly one field must be set.
type MediaRef struct {
	FileID string `json:"fileId,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Validate checks that exactly one reference is set.
func (m MediaRef) Validate() error {
	if (m.FileID == "") == (m.URL == "") {
		return core.ErrMediaRequired
	}
	return nil
}

// CreateRequest describes a report-generation job submission.
type CreateRequest struct {
	// Media is the media to analyze (required).
	Media MediaRef `json:"media"`

	// OutputType selects the report format. Defaults to markdown.
	OutputType core.OutputType `json:"outputType,omitempty"`

	// Title is an optional display title for the report.
	Title string `json:"title,omitempty"`

	// Options holds analysis options passed through to the pipeline.
	Options map[string]any `json:"options,omitempty"`
}

// Service exposes report operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
	jobs      *jobs.Service
}

// NewService creates a report service on the given transport and job service.
func NewService(t *transport.Client, j *jobs.Service) *Service {
	return &Service{transport: t, jobs: j}
}

// Create validates the media reference and submits a report-generation job.
// The returned handle tracks the job through to its report.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*JobHandle, error) {
	if req == nil {
		return nil, core.ErrMediaRequired
	}
	if err := req.Media.Validate(); err != nil {
		return nil, err
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:         http.MethodPost,
		Path:           reportsPath,
		Body:           req,
		IdempotencyKey: transport.NewIdempotencyKey(),
		Retryable:      true,
	})
	if err != nil {
		return nil, err
	}

	var job core.Job
	if err := resp.DecodeJSON(&job); err != nil {
		return nil, err
	}
	if job.RequestID == "" {
		job.RequestID = resp.RequestID
	}

	return &JobHandle{reports: s, jobs: s.jobs, job: &job}, nil
}

// Get fetches a report by id.
func (s *Service) Get(ctx context.Context, reportID string) (*core.Report, error) {
	if reportID == "" {
		return nil, core.ErrIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      reportsPath + "/" + reportID,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var report core.Report
	if err := resp.DecodeJSON(&report); err != nil {
		return nil, err
	}
	if report.RequestID == "" {
		report.RequestID = resp.RequestID
	}
	return &report, nil
}

// GetByJob fetches the report produced by a succeeded job.
func (s *Service) GetByJob(ctx context.Context, jobID string) (*core.Report, error) {
	if jobID == "" {
		return nil, core.ErrJobIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      "/v1/jobs/" + jobID + "/report",
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var report core.Report
	if err := resp.DecodeJSON(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
