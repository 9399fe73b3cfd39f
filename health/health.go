// Package health probes API availability.
package health

import (
	"context"
	"net/http"

	"github.com/acuity-ai/acuity-go/transport"
)

// healthPath is the API endpoint for the health probe.
const healthPath = "/v1/health"

// Status describes the service's reported health.
type Status struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// OK reports whether the service considers itself healthy.
func (s *Status) OK() bool {
	return s.Status == "ok"
}

// Service exposes the health probe. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates a health service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Check probes the API and returns its reported status.
func (s *Service) Check(ctx context.Context) (*Status, error) {
	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      healthPath,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var status Status
	if err := resp.DecodeJSON(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
