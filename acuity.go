// Package acuity is the official Go SDK for the Acuity behavioral-analysis
// API.
//
// Create a client with an API key, submit media for analysis, and wait for
// the report:
//
//	client := acuity.New(os.Getenv("ACUITY_API_KEY"))
//
//	handle, err := client.Reports.Create(ctx, &reports.CreateRequest{
//	    Media:      reports.MediaRef{FileID: file.ID},
//	    OutputType: core.OutputMarkdown,
//	})
//	if err != nil {
//	    return err
//	}
//
//	report, err := handle.Report(ctx)
//
// For incremental progress, stream the job's lifecycle events instead:
//
//	stream, err := handle.Stream(ctx)
//	for ev := range stream.Events {
//	    // status, stage, and terminal events in arrival order
//	}
//
// See the core package for the error taxonomy and the webhooks package for
// inbound event verification.
package acuity

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/credits"
	"github.com/acuity-ai/acuity-go/entities"
	"github.com/acuity-ai/acuity-go/feedback"
	"github.com/acuity-ai/acuity-go/files"
	"github.com/acuity-ai/acuity-go/health"
	"github.com/acuity-ai/acuity-go/jobs"
	"github.com/acuity-ai/acuity-go/reports"
	"github.com/acuity-ai/acuity-go/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the API key.
const DefaultAPIKeyEnvVar = "ACUITY_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("acuity: ACUITY_API_KEY environment variable not set")

// Client is the entry point for the Acuity API. Client is safe for
// concurrent use; its configuration is immutable after construction.
type Client struct {
	Jobs     *jobs.Service
	Reports  *reports.Service
	Files    *files.Service
	Credits  *credits.Service
	Entities *entities.Service
	Feedback *feedback.Service
	Health   *health.Service

	transport *transport.Client
}

// Option configures the client. Options are defined in the transport
// package and re-exported here for convenience.
type Option = transport.Option

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option { return transport.WithBaseURL(url) }

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option { return transport.WithHTTPClient(c) }

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option { return transport.WithTimeout(d) }

// WithRetryPolicy sets the retry policy for retryable requests.
func WithRetryPolicy(r core.RetryPolicy) Option { return transport.WithRetryPolicy(r) }

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option { return transport.WithHeader(key, value) }

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option { return transport.WithTelemetry(h) }

// New creates a new client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	t := transport.New(apiKey, opts...)

	jobSvc := jobs.NewService(t)
	return &Client{
		Jobs:      jobSvc,
		Reports:   reports.NewService(t, jobSvc),
		Files:     files.NewService(t),
		Credits:   credits.NewService(t),
		Entities:  entities.NewService(t),
		Feedback:  feedback.NewService(t),
		Health:    health.NewService(t),
		transport: t,
	}
}

// NewFromEnv creates a new client using the ACUITY_API_KEY environment
// variable.
func NewFromEnv(opts ...Option) (*Client, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Transport returns the underlying transport client, for advanced use.
func (c *Client) Transport() *transport.Client {
	return c.transport
}
