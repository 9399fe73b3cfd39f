// Package webhooks verifies and parses inbound Acuity webhook deliveries.
//
// Every delivery is signed with HMAC-SHA256 over "{timestamp}.{rawBody}"
// using the endpoint's shared secret, carried in the X-Acuity-Signature
// header as "t=<unix>,v1=<hex>". Verify the signature against the raw
// request body before parsing it:
//
//	verifier := webhooks.NewVerifier(os.Getenv("ACUITY_WEBHOOK_SECRET"))
//	if err := verifier.Verify(body, r.Header.Get(webhooks.SignatureHeader)); err != nil {
//	    http.Error(w, "bad signature", http.StatusBadRequest)
//	    return
//	}
//	event, err := webhooks.ParseEvent(body)
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the delivery signature.
const SignatureHeader = "X-Acuity-Signature"

// DefaultTolerance is how far a delivery timestamp may drift from now.
const DefaultTolerance = 5 * time.Minute

// Verification errors.
var (
	ErrMissingSignature   = errors.New("missing signature header")
	ErrMalformedSignature = errors.New("malformed signature header: expected \"t=<unix>,v1=<hex>\"")
	ErrExpiredTimestamp   = errors.New("signature timestamp outside tolerance window")
	ErrSignatureMismatch  = errors.New("signature mismatch")
)

// Verifier checks webhook delivery signatures. Verifier is safe for
// concurrent use.
type Verifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithTolerance sets the allowed timestamp drift.
func WithTolerance(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		if d > 0 {
			v.tolerance = d
		}
	}
}

// NewVerifier creates a Verifier for the given shared signing secret.
func NewVerifier(secret string, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		secret:    []byte(secret),
		tolerance: DefaultTolerance,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the signature header against the raw request body. The
// header is validated for shape and freshness before any HMAC computation;
// the comparison itself is constant-time.
func (v *Verifier) Verify(payload []byte, header string) error {
	ts, signature, err := parseHeader(header)
	if err != nil {
		return err
	}

	drift := v.now().Sub(time.Unix(ts, 0))
	if drift < 0 {
		drift = -drift
	}
	if drift > v.tolerance {
		return ErrExpiredTimestamp
	}

	expected := computeSignature(v.secret, ts, payload)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return ErrSignatureMismatch
	}
	return nil
}

// parseHeader extracts the timestamp and v1 signature from the header.
func parseHeader(header string) (int64, string, error) {
	if header == "" {
		return 0, "", ErrMissingSignature
	}

	var tsPart, sigPart string
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "t="):
			tsPart = strings.TrimPrefix(part, "t=")
		case strings.HasPrefix(part, "v1="):
			sigPart = strings.TrimPrefix(part, "v1=")
		}
	}
	if tsPart == "" || sigPart == "" {
		return 0, "", ErrMalformedSignature
	}

	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return 0, "", ErrMalformedSignature
	}
	return ts, sigPart, nil
}

// computeSignature returns the hex HMAC-SHA256 of "{timestamp}.{payload}".
func computeSignature(secret []byte, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign produces a signature header for the payload. Useful for tests and
// local delivery simulation.
func Sign(secret string, ts time.Time, payload []byte) string {
	unix := ts.Unix()
	return fmt.Sprintf("t=%d,v1=%s", unix, computeSignature([]byte(secret), unix, payload))
}

// Event is a parsed webhook delivery envelope.
type Event struct {
	// Type is the event name, e.g. "job.succeeded".
	Type string

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Data is the event payload, left raw for caller-side decoding.
	Data json.RawMessage
}

// eventJSON mirrors the wire envelope.
type eventJSON struct {
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ParseEvent decodes a webhook delivery body. Parsing is independent of
// signature verification; always Verify first.
func ParseEvent(payload []byte) (*Event, error) {
	var raw eventJSON
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("webhook event: %w", err)
	}
	if raw.Type == "" {
		return nil, errors.New("webhook event: missing type")
	}
	return &Event{
		Type:      raw.Type,
		Timestamp: time.Unix(raw.Timestamp, 0),
		Data:      raw.Data,
	}, nil
}
