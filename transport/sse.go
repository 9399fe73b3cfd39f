package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/acuity-ai/acuity-go/core"
)

// sseBufferSize is the channel buffer for decoded frames.
const sseBufferSize = 16

// StreamSSE opens one streaming GET and returns a lazy, single-pass sequence
// of parsed Server-Sent-Events frames.
//
// The sequence is finite: it ends when the underlying connection closes,
// whether naturally, by error, or by cancellation. It does not reconnect;
// resumption is the caller's responsibility via lastEventID, which is sent
// as the Last-Event-ID header when non-empty.
//
// The connection is bounded by the configured per-attempt timeout, composed
// with the caller's cancellation: whichever fires first aborts the stream.
func (c *Client) StreamSSE(ctx context.Context, path string, lastEventID string) (*core.SSEStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sctx := ctx
	cancel := context.CancelFunc(func() {})
	if c.config.Timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
	}

	httpReq, err := http.NewRequestWithContext(sctx, http.MethodGet, c.buildURL(path, nil), nil)
	if err != nil {
		cancel()
		return nil, networkError(err)
	}

	for key, values := range c.buildHeaders(uuid.NewString()) {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	if lastEventID != "" {
		httpReq.Header.Set("Last-Event-ID", lastEventID)
	}

	httpResp, err := c.config.HTTPClient.Do(httpReq)
	if err != nil {
		cancel()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, networkError(err)
	}

	// A failure before the first byte is an ordinary API error, not a
	// stream-specific one.
	if httpResp.StatusCode >= 400 {
		defer cancel()
		defer httpResp.Body.Close()
		body, _ := io.ReadAll(httpResp.Body)
		echoedID := httpResp.Header.Get(HeaderRequestID)
		return nil, classifyError(httpResp.StatusCode, body, echoedID, httpResp.Header.Get("Retry-After"))
	}

	events := make(chan core.SSEEvent, sseBufferSize)
	errCh := make(chan error, 1)

	go decodeSSE(sctx, cancel, httpResp.Body, events, errCh)

	return &core.SSEStream{Events: events, Err: errCh}, nil
}

// decodeSSE reads the byte stream incrementally and emits parsed frames.
// The error, if any, is sent before the channels close so consumers can
// drain Events and then read Err.
func decodeSSE(ctx context.Context, cancel context.CancelFunc, body io.ReadCloser, events chan<- core.SSEEvent, errCh chan<- error) {
	defer cancel()
	defer body.Close()
	defer close(events)
	defer close(errCh)

	reader := bufio.NewReader(body)
	var frame frameBuilder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Flush any buffered partial frame as a final frame.
				if ev, ok := frame.build(); ok {
					if !send(ctx, events, ev) {
						errCh <- ctx.Err()
					}
				}
				return
			}
			if ctx.Err() != nil {
				errCh <- ctx.Err()
				return
			}
			errCh <- networkError(err)
			return
		}

		line = strings.TrimRight(line, "\r\n")

		// A blank line delimits a complete frame.
		if line == "" {
			if ev, ok := frame.build(); ok {
				if !send(ctx, events, ev) {
					errCh <- ctx.Err()
					return
				}
			}
			frame = frameBuilder{}
			continue
		}

		frame.addLine(line)
	}
}

// send delivers a frame, respecting cancellation. Returns false if the
// context fired first.
func send(ctx context.Context, events chan<- core.SSEEvent, ev core.SSEEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// frameBuilder accumulates the field lines of one SSE frame.
type frameBuilder struct {
	id        string
	event     string
	dataLines []string
}

// addLine parses one field line into the frame. Comment lines (leading
// colon) and unknown fields are ignored per the SSE spec.
func (f *frameBuilder) addLine(line string) {
	if strings.HasPrefix(line, ":") {
		return
	}

	field, value := line, ""
	if i := strings.Index(line, ":"); i >= 0 {
		field = line[:i]
		value = strings.TrimPrefix(line[i+1:], " ")
	}

	switch field {
	case "id":
		f.id = value
	case "event":
		f.event = value
	case "data":
		f.dataLines = append(f.dataLines, value)
	}
}

// build assembles the frame. Frames with no data lines are discarded.
// Multiple data lines are newline-joined; the payload is offered as JSON
// when it parses, with the raw text always preserved.
func (f *frameBuilder) build() (core.SSEEvent, bool) {
	if len(f.dataLines) == 0 {
		return core.SSEEvent{}, false
	}

	ev := core.SSEEvent{
		ID:    f.id,
		Event: f.event,
		Raw:   strings.Join(f.dataLines, "\n"),
	}
	if ev.Event == "" {
		ev.Event = core.SSEEventMessage
	}
	if json.Valid([]byte(ev.Raw)) {
		ev.Data = json.RawMessage(ev.Raw)
	}
	return ev, true
}
