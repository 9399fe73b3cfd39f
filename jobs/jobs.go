// Package jobs tracks asynchronous analysis jobs: lookup, cancellation, and
// the streaming and waiting primitives over the job event stream.
package jobs

import (
	"context"
	"net/http"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/transport"
)

// jobsPath is the API endpoint for jobs.
const jobsPath = "/v1/jobs"

// Service exposes job operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates a job service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Get fetches the current snapshot of a job.
func (s *Service) Get(ctx context.Context, jobID string) (*core.Job, error) {
	if jobID == "" {
		return nil, core.ErrJobIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      jobsPath + "/" + jobID,
		Retryable: true,
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
	return &job, nil
}

// Cancel requests cancellation of a job. The server may still complete the
// job if it was already finishing; the returned snapshot reflects the state
// at the time of the request.
func (s *Service) Cancel(ctx context.Context, jobID string) (*core.Job, error) {
	if jobID == "" {
		return nil, core.ErrJobIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:         http.MethodPost,
		Path:           jobsPath + "/" + jobID + "/cancel",
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
	return &job, nil
}
