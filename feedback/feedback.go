// Package feedback submits quality feedback on generated reports.
package feedback

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/acuity-ai/acuity-go/transport"
)

// feedbackPath is the API endpoint for feedback.
const feedbackPath = "/v1/feedback"

// Validation errors.
var (
	ErrReportIDRequired = errors.New("report id required")
	ErrRatingOutOfRange = errors.New("rating out of range: must be between 1 and 5")
)

// Feedback describes one feedback submission for a report.
type Feedback struct {
	// ReportID identifies the report the feedback is about (required).
	ReportID string `json:"reportId"`

	// Rating is a 1-5 quality score (required).
	Rating int `json:"rating"`

	// Comment is optional free text.
	Comment string `json:"comment,omitempty"`
}

// Receipt confirms a stored feedback submission.
type Receipt struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"reportId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service exposes feedback operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates a feedback service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Submit stores feedback for a report.
func (s *Service) Submit(ctx context.Context, fb *Feedback) (*Receipt, error) {
	if fb == nil || fb.ReportID == "" {
		return nil, ErrReportIDRequired
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		return nil, ErrRatingOutOfRange
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:         http.MethodPost,
		Path:           feedbackPath,
		Body:           fb,
		IdempotencyKey: transport.NewIdempotencyKey(),
		Retryable:      true,
	})
	if err != nil {
		return nil, err
	}

	var receipt Receipt
	if err := resp.DecodeJSON(&receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
