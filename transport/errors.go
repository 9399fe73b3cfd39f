package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/acuity-ai/acuity-go/core"
)

// errorBody is the API error envelope. The fields may appear at the top
// level or nested under "error"; both shapes are tolerated.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// classifyError converts a non-2xx response into a core.APIError wrapping
// the sentinel for its status.
func classifyError(status int, body []byte, requestID, retryAfter string) error {
	var envelope errorBody
	_ = json.Unmarshal(body, &envelope)

	code := envelope.Code
	message := envelope.Message
	details := envelope.Details
	if envelope.Error != nil {
		if code == "" {
			code = envelope.Error.Code
		}
		if message == "" {
			message = envelope.Error.Message
		}
		if details == nil {
			details = envelope.Error.Details
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}

	apiErr := &core.APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
		Err:       sentinelForStatus(status),
	}
	if status == http.StatusTooManyRequests {
		apiErr.RetryAfter = parseRetryAfter(retryAfter)
	}
	return apiErr
}

// sentinelForStatus maps an HTTP status code to a core sentinel error.
// Statuses without a dedicated sentinel split on the 5xx boundary, so an
// unclassified client error stays permanent while any server error remains
// retryable.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusUnprocessableEntity:
		return core.ErrValidation
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 500:
		return core.ErrServer
	default:
		return core.ErrRequestFailed
	}
}

// parseRetryAfter converts a Retry-After header in seconds into a duration.
// Malformed or absent values yield zero.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// networkError wraps a transport failure that produced no response.
func networkError(err error) error {
	return &core.APIError{
		Message: err.Error(),
		Err:     core.ErrNetwork,
	}
}

// decodeError wraps a serialization failure.
func decodeError(err error) error {
	return &core.APIError{
		Message: err.Error(),
		Err:     core.ErrDecode,
	}
}
