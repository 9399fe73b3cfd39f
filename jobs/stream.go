package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/acuity-ai/acuity-go/core"
)

// Defaults for the reconnecting event stream.
const (
	// DefaultStreamRetries is the reconnection budget per Stream call.
	DefaultStreamRetries = 3

	defaultStreamBaseDelay = 500 * time.Millisecond
	defaultStreamMaxDelay  = 10 * time.Second
)

// streamConfig holds per-call stream settings. The backoff values are
// threaded through rather than package constants so tests can inject small
// values.
type streamConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	onEvent    func(core.JobEvent)
}

// StreamOption configures a Stream or Wait call.
type StreamOption func(*streamConfig)

// WithOnEvent registers a callback invoked synchronously for every yielded
// event, in addition to channel delivery.
func WithOnEvent(fn func(core.JobEvent)) StreamOption {
	return func(c *streamConfig) {
		c.onEvent = fn
	}
}

// WithStreamRetries sets the reconnection budget.
func WithStreamRetries(n int) StreamOption {
	return func(c *streamConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithStreamBackoff sets the reconnect backoff base and cap.
func WithStreamBackoff(base, max time.Duration) StreamOption {
	return func(c *streamConfig) {
		if base > 0 {
			c.baseDelay = base
		}
		if max > 0 {
			c.maxDelay = max
		}
	}
}

// Stream produces a durable, reconnecting sequence of normalized job events
// for one job.
//
// Dropped connections are reopened with the last observed frame id sent as
// Last-Event-ID, up to the reconnection budget; backoff between reconnects
// is exponential with jitter. The stream ends for good on the first terminal
// event. A server "error" frame is fatal and is never retried. Heartbeat
// frames keep the connection alive but are never yielded.
func (s *Service) Stream(ctx context.Context, jobID string, opts ...StreamOption) (*core.JobStream, error) {
	if jobID == "" {
		return nil, core.ErrJobIDRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := streamConfig{
		maxRetries: DefaultStreamRetries,
		baseDelay:  defaultStreamBaseDelay,
		maxDelay:   defaultStreamMaxDelay,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	events := make(chan core.JobEvent)
	errCh := make(chan error, 1)

	go s.runStream(ctx, jobID, cfg, events, errCh)

	return &core.JobStream{Events: events, Err: errCh}, nil
}

// runStream drives the reconnect state machine. The error, if any, is sent
// before the channels close.
func (s *Service) runStream(ctx context.Context, jobID string, cfg streamConfig, events chan<- core.JobEvent, errCh chan<- error) {
	defer close(events)
	defer close(errCh)

	var lastEventID string
	retries := 0

	for {
		// Cancellation always wins over reconnection.
		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}

		// Each connection gets its own cancel so an early exit (terminal or
		// fatal frame) releases the decoder and the network connection.
		cctx, ccancel := context.WithCancel(ctx)
		sse, err := s.transport.StreamSSE(cctx, jobsPath+"/"+jobID+"/events", lastEventID)
		if err == nil {
			var done bool
			done, err = s.consume(ctx, sse, &lastEventID, &retries, cfg, events, errCh)
			if done {
				ccancel()
				return
			}
		}
		ccancel()

		if ctx.Err() != nil {
			errCh <- ctx.Err()
			return
		}

		// The connection dropped (or never opened): burn one retry.
		retries++
		if retries > cfg.maxRetries {
			if err == nil {
				err = errors.New("stream ended without a terminal event")
			}
			errCh <- &core.StreamError{
				JobID:       jobID,
				LastEventID: lastEventID,
				Retries:     retries - 1,
				Err:         err,
			}
			return
		}

		if !sleepBackoff(ctx, cfg, retries) {
			errCh <- ctx.Err()
			return
		}
	}
}

// consume drains one SSE connection. It returns done=true when the stream is
// finished for good and the outcome has already been delivered, and otherwise
// the connection-level error to feed the retry accounting.
func (s *Service) consume(ctx context.Context, sse *core.SSEStream, lastEventID *string, retries *int, cfg streamConfig, events chan<- core.JobEvent, errCh chan<- error) (bool, error) {
	for frame := range sse.Events {
		if frame.ID != "" {
			*lastEventID = frame.ID
		}

		switch frame.Event {
		case core.SSEEventHeartbeat:
			// Keeps the connection logically alive; never yielded.
			continue

		case core.SSEEventError:
			// A server-reported stream error can never recover; fail
			// immediately without burning the retry budget.
			errCh <- fatalStreamError(frame)
			return true, nil

		default:
			ev := mapFrame(frame)
			select {
			case events <- ev:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return true, nil
			}
			if cfg.onEvent != nil {
				cfg.onEvent(ev)
			}
			*retries = 0
			if ev.Terminal() {
				// Absorbing state: the stream is done for good.
				return true, nil
			}
		}
	}

	// Events closed: the connection ended without a terminal event.
	connErr := <-sse.Err
	if ctx.Err() != nil {
		errCh <- ctx.Err()
		return true, nil
	}
	return false, connErr
}

// fatalStreamError converts a server "error" frame into an APIError carrying
// the server-provided code and message.
func fatalStreamError(frame core.SSEEvent) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if frame.Data != nil {
		_ = json.Unmarshal(frame.Data, &payload)
	}
	if payload.Message == "" {
		payload.Message = frame.Raw
	}
	return &core.APIError{
		Code:    payload.Code,
		Message: payload.Message,
		Err:     core.ErrServer,
	}
}

// mapFrame normalizes one SSE frame into a JobEvent. Unrecognized event
// names are treated as status updates, since the server may introduce new
// informational event types.
func mapFrame(frame core.SSEEvent) core.JobEvent {
	switch frame.Event {
	case core.SSEEventStage:
		var payload struct {
			Stage    core.Stage `json:"stage"`
			Progress float64    `json:"progress"`
			Job      *core.Job  `json:"job"`
		}
		if frame.Data != nil {
			_ = json.Unmarshal(frame.Data, &payload)
		}
		return core.JobEvent{
			Type:     core.EventStage,
			Stage:    payload.Stage,
			Progress: payload.Progress,
			Job:      payload.Job,
		}

	case core.SSEEventTerminal:
		return core.JobEvent{Type: core.EventTerminal, Job: decodeJob(frame)}

	case core.SSEEventLog:
		var payload struct {
			Message string    `json:"message"`
			TS      time.Time `json:"ts"`
		}
		if frame.Data != nil {
			_ = json.Unmarshal(frame.Data, &payload)
		}
		if payload.Message == "" {
			payload.Message = frame.Raw
		}
		return core.JobEvent{
			Type:      core.EventLog,
			Message:   payload.Message,
			Timestamp: payload.TS,
		}

	default:
		// "status" and anything unrecognized.
		return core.JobEvent{Type: core.EventStatus, Job: decodeJob(frame)}
	}
}

// decodeJob extracts the job snapshot carried by a status or terminal frame.
func decodeJob(frame core.SSEEvent) *core.Job {
	if frame.Data == nil {
		return nil
	}
	var job core.Job
	if err := json.Unmarshal(frame.Data, &job); err != nil {
		return nil
	}
	return &job
}

// sleepBackoff waits the exponential backoff delay for the given reconnect
// attempt, with up to 50% added jitter, capped. Returns false if the context
// fired first.
func sleepBackoff(ctx context.Context, cfg streamConfig, attempt int) bool {
	delay := float64(cfg.baseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(cfg.maxDelay) {
		delay = float64(cfg.maxDelay)
	}
	delay *= 1 + rand.Float64()*0.5

	select {
	case <-ctx.Done():
		return false
	case <-time.After(time.Duration(delay)):
		return true
	}
}
