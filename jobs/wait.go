package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/acuity-ai/acuity-go/core"
)

// DefaultWaitTimeout bounds a Wait call end to end, spanning reconnects.
// This is independent of the transport's per-attempt timeout.
const DefaultWaitTimeout = 10 * time.Minute

// waitConfig holds per-call wait settings.
type waitConfig struct {
	timeout    time.Duration
	streamOpts []StreamOption
}

// WaitOption configures a Wait call.
type WaitOption func(*waitConfig)

// WithWaitTimeout sets the overall timeout for the wait, spanning possibly
// many reconnects.
func WithWaitTimeout(d time.Duration) WaitOption {
	return func(c *waitConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithWaitStreamOptions forwards options to the underlying Stream call.
func WithWaitStreamOptions(opts ...StreamOption) WaitOption {
	return func(c *waitConfig) {
		c.streamOpts = append(c.streamOpts, opts...)
	}
}

// Wait consumes the job's event stream until a terminal event and resolves
// to the final job snapshot.
//
// A failed job returns *core.JobFailedError; a canceled job returns
// *core.JobCanceledError. If the overall timeout elapses without a terminal
// event, Wait returns a *core.JobFailedError with Timeout set. Cancellation
// of the caller's context takes precedence over all of these and surfaces as
// the context's own error.
func (s *Service) Wait(ctx context.Context, jobID string, opts ...WaitOption) (*core.Job, error) {
	if jobID == "" {
		return nil, core.ErrJobIDRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := waitConfig{timeout: DefaultWaitTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	// One composed cancellation: the overall timeout or the caller's own
	// signal, whichever fires first. The timer is always released on exit.
	wctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	stream, err := s.Stream(wctx, jobID, cfg.streamOpts...)
	if err != nil {
		return nil, err
	}

	for ev := range stream.Events {
		if !ev.Terminal() || ev.Job == nil {
			continue
		}
		switch ev.Job.Status {
		case core.StatusSucceeded:
			return ev.Job, nil
		case core.StatusFailed:
			ferr := &core.JobFailedError{JobID: jobID, RequestID: ev.Job.RequestID}
			if ev.Job.Error != nil {
				ferr.Code = ev.Job.Error.Code
				ferr.Message = ev.Job.Error.Message
			}
			return nil, ferr
		case core.StatusCanceled:
			return nil, &core.JobCanceledError{JobID: jobID, RequestID: ev.Job.RequestID}
		default:
			// A terminal event carrying a non-terminal status breaks the
			// server contract; keep consuming and let the timeout path
			// resolve it rather than treating it as success.
		}
	}

	streamErr := <-stream.Err

	// The caller's cancellation wins over both the internal timeout and any
	// retry-exhausted wrapping.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Only the wait's own elapsed deadline reads as a timeout. A stream error
	// caused by a per-attempt transport deadline keeps its own diagnostics.
	if errors.Is(wctx.Err(), context.DeadlineExceeded) {
		return nil, &core.JobFailedError{JobID: jobID, Timeout: cfg.timeout}
	}
	if streamErr != nil {
		return nil, streamErr
	}
	return nil, &core.JobFailedError{JobID: jobID, Timeout: cfg.timeout}
}
