package reminder

import (
	"context"
	"encoding/json"
)

// Sink is the external delivery channel for fired reminders. Delivery
// failures are advisory: the registry logs them but still considers the job
// fired (at-most-once, never retried).
type Sink interface {
	Deliver(ctx context.Context, rec Recipient, text string, metadata json.RawMessage) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rec Recipient, text string, metadata json.RawMessage) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, rec Recipient, text string, metadata json.RawMessage) error {
	return f(ctx, rec, text, metadata)
}
