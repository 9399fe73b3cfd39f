package transport

import (
	"net/http"
	"time"

	"github.com/acuity-ai/acuity-go/core"
)

// DefaultBaseURL is the default Acuity API base URL.
const DefaultBaseURL = "https://api.acuity.dev"

// DefaultTimeout is the default per-attempt request timeout.
const DefaultTimeout = 60 * time.Second

// Header names used on every request.
const (
	HeaderAPIKey         = "X-Api-Key"
	HeaderRequestID      = "X-Request-Id"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Config holds configuration for the transport client.
type Config struct {
	// APIKey is the Acuity API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.acuity.dev
	BaseURL string

	// HTTPClient is the HTTP client to use. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each individual attempt, including each retry.
	// This is distinct from any overall wait timeout layered above.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	// Retry is the retry policy for retryable requests.
	// Defaults to core.DefaultRetryPolicy().
	Retry core.RetryPolicy

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Telemetry receives request lifecycle events.
	// Defaults to core.NoopTelemetryHook{}.
	Telemetry core.TelemetryHook
}

// Option configures the transport client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetryPolicy sets the retry policy for retryable requests.
func WithRetryPolicy(r core.RetryPolicy) Option {
	return func(c *Config) {
		if r != nil {
			c.Retry = r
		}
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Config) {
		if h != nil {
			c.Telemetry = h
		}
	}
}

// New creates a new transport client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		BaseURL:    DefaultBaseURL,
		HTTPClient: http.DefaultClient,
		Timeout:    DefaultTimeout,
		Retry:      core.DefaultRetryPolicy(),
		Telemetry:  core.NoopTelemetryHook{},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{config: cfg}
}
