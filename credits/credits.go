// Package credits reports account credit balance and usage.
package credits

import (
	"context"
	"net/http"
	"time"

	"github.com/acuity-ai/acuity-go/transport"
)

// creditsPath is the API endpoint for credits.
const creditsPath = "/v1/credits"

// Balance describes the account's current credit state.
type Balance struct {
	// Available is the number of credits that can still be spent.
	Available int64 `json:"available"`

	// Reserved is held by jobs that are queued or running.
	Reserved int64 `json:"reserved"`

	// Plan is the subscription plan identifier.
	Plan string `json:"plan,omitempty"`

	// ResetsAt is when the balance next replenishes, zero for pay-as-you-go.
	ResetsAt time.Time `json:"resetsAt,omitempty"`
}

// Service exposes credit operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates a credit service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Get fetches the current credit balance.
func (s *Service) Get(ctx context.Context) (*Balance, error) {
	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      creditsPath,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var balance Balance
	if err := resp.DecodeJSON(&balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
