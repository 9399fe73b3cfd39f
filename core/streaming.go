package core

// JobStream represents a live sequence of normalized job-lifecycle events.
//
// Channel Rules:
//   - Producers MUST close Events and Err when the stream ends
//   - On context cancellation, producers MUST terminate promptly and close
//     channels
//   - Err emits at most one error
//   - A terminal JobEvent is always the last event delivered; after it the
//     Events channel is closed and nothing is sent on Err
//   - Heartbeat frames are filtered before reaching Events
type JobStream struct {
	// Events emits normalized job events in arrival order. Closed when the
	// stream ends.
	Events <-chan JobEvent

	// Err emits at most one error. Closed when the stream ends. A stream
	// that ends with a terminal event closes Err without sending.
	Err <-chan error
}

// SSEStream represents one raw Server-Sent-Events connection.
//
// The sequence is finite and single-pass: it ends when the underlying
// connection closes (naturally, by error, or by cancellation). Resumption
// across connections is the consumer's responsibility via the last observed
// frame ID.
type SSEStream struct {
	// Events emits parsed SSE frames in arrival order. Closed when the
	// connection ends.
	Events <-chan SSEEvent

	// Err emits at most one error. Closed when the connection ends. A clean
	// end-of-stream closes Err without sending.
	Err <-chan error
}
