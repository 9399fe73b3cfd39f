// Package transport executes HTTP requests against the Acuity API: URL
// building, auth and correlation headers, per-attempt timeouts, retry with
// backoff, error classification, and the Server-Sent-Events stream primitive.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/acuity-ai/acuity-go/core"
)

// Client executes API requests. Client is safe for concurrent use: its
// configuration is immutable after construction and each request owns its
// own retry counter and buffers.
type Client struct {
	config Config
}

// Form describes a multipart/form-data request body.
type Form struct {
	// Fields are plain form fields.
	Fields map[string]string

	// FileField is the form field name for the file part.
	FileField string

	// Filename is the uploaded file's name.
	Filename string

	// File is the file content. It is read once when the request is built;
	// retries reuse the buffered bytes.
	File io.Reader
}

// Request describes one logical API operation.
type Request struct {
	Method string
	Path   string

	// Query holds URL query parameters. Empty values are omitted.
	Query url.Values

	// Header holds per-request header overrides.
	Header http.Header

	// Body is a JSON-serializable request body. Ignored when Form is set.
	Body any

	// Form is a multipart form payload. The multipart writer supplies the
	// Content-Type with its boundary.
	Form *Form

	// IdempotencyKey is sent as Idempotency-Key when non-empty.
	IdempotencyKey string

	// RequestID overrides the generated request correlator.
	RequestID string

	// Retryable marks the request as safe to retry. Callers set this based
	// on HTTP-method idempotency semantics; only retryable requests enter
	// the retry loop.
	Retryable bool
}

// NewIdempotencyKey generates a fresh idempotency key for a write request.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// Do executes one logical request, including retries for retryable requests,
// and returns the parsed response.
//
// Cancellation: if ctx is already canceled, Do fails immediately without any
// network attempt. Each attempt is additionally bounded by the configured
// per-attempt timeout; whichever fires first aborts the in-flight call.
func (c *Client) Do(ctx context.Context, req *Request) (*core.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	// Serialize the body once so retries reuse the same bytes.
	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		Method:    req.Method,
		Path:      req.Path,
		RequestID: requestID,
		Start:     start,
	})

	var resp *core.Response
	attempts := 0

retryLoop:
	for attempt := 0; ; attempt++ {
		attempts++
		resp, err = c.attempt(ctx, req, requestID, body, contentType)
		if err == nil {
			break
		}

		if !req.Retryable {
			break
		}
		delay, shouldRetry := c.config.Retry.NextDelay(attempt, err)
		if !shouldRetry {
			break
		}

		// Wait before retry, respecting context cancellation.
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retryLoop
		case <-time.After(delay):
			continue
		}
	}

	end := core.RequestEndEvent{
		Method:    req.Method,
		Path:      req.Path,
		RequestID: requestID,
		Attempts:  attempts,
		Start:     start,
		End:       time.Now(),
		Err:       err,
	}
	// The end event keeps the client-generated correlator so hooks can pair
	// it with the start event; the server-echoed id lives on the response.
	if resp != nil {
		end.Status = resp.Status
	} else if apiErr, ok := err.(*core.APIError); ok {
		end.Status = apiErr.Status
	}
	c.config.Telemetry.OnRequestEnd(end)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

// attempt executes a single HTTP attempt.
func (c *Client) attempt(ctx context.Context, req *Request, requestID string, body []byte, contentType string) (*core.Response, error) {
	actx := ctx
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(actx, req.Method, c.buildURL(req.Path, req.Query), reader)
	if err != nil {
		return nil, networkError(err)
	}

	for key, values := range c.buildHeaders(requestID) {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.IdempotencyKey != "" {
		httpReq.Header.Set(HeaderIdempotencyKey, req.IdempotencyKey)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Set(key, v)
		}
	}

	httpResp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		// The caller's cancellation takes precedence over classification;
		// a tripped per-attempt timeout is an ordinary (retryable) failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, networkError(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, networkError(err)
	}

	// Prefer the server-echoed correlator over the client-generated one.
	echoedID := httpResp.Header.Get(HeaderRequestID)
	if echoedID == "" {
		echoedID = requestID
	}

	if httpResp.StatusCode >= 400 {
		return nil, classifyError(httpResp.StatusCode, respBody, echoedID, httpResp.Header.Get("Retry-After"))
	}

	return &core.Response{
		Status:    httpResp.StatusCode,
		RequestID: echoedID,
		Header:    httpResp.Header,
		Body:      respBody,
	}, nil
}

// buildURL joins the base URL, path, and query parameters, omitting empty
// query values.
func (c *Client) buildURL(path string, query url.Values) string {
	u := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) == 0 {
		return u
	}
	filtered := url.Values{}
	for key, values := range query {
		for _, v := range values {
			if v != "" {
				filtered.Add(key, v)
			}
		}
	}
	if encoded := filtered.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// buildHeaders constructs the headers common to every request.
func (c *Client) buildHeaders(requestID string) http.Header {
	headers := make(http.Header)
	headers.Set(HeaderAPIKey, c.config.APIKey.Expose())
	headers.Set(HeaderRequestID, requestID)

	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// encodeBody serializes the request body, returning the bytes and the
// Content-Type to send. Multipart forms are buffered so retries can replay
// them; JSON bodies are marshaled once.
func encodeBody(req *Request) ([]byte, string, error) {
	if req.Form != nil {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)

		for field, value := range req.Form.Fields {
			if err := w.WriteField(field, value); err != nil {
				return nil, "", decodeError(err)
			}
		}

		part, err := w.CreateFormFile(req.Form.FileField, req.Form.Filename)
		if err != nil {
			return nil, "", decodeError(err)
		}
		if _, err := io.Copy(part, req.Form.File); err != nil {
			return nil, "", networkError(err)
		}
		if err := w.Close(); err != nil {
			return nil, "", decodeError(err)
		}

		return buf.Bytes(), w.FormDataContentType(), nil
	}

	if req.Body != nil {
		body, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", decodeError(err)
		}
		return body, "application/json", nil
	}

	return nil, "", nil
}
