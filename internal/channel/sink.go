package channel

import (
	"context"
	"encoding/json"

	"github.com/flemzord/remindd/internal/reminder"
	"github.com/flemzord/remindd/pkg/message"
)

// NotifySink adapts the dispatcher to the registry's notification sink: a
// fired reminder becomes an outbound message addressed to the recipient's
// reply target, routed through the channel captured in the recipient
// snapshot.
type NotifySink struct {
	dispatcher *Dispatcher
}

// Compile-time interface check.
var _ reminder.Sink = (*NotifySink)(nil)

// NewNotifySink creates a sink delivering through d.
func NewNotifySink(d *Dispatcher) *NotifySink {
	return &NotifySink{dispatcher: d}
}

// Deliver implements reminder.Sink.
func (s *NotifySink) Deliver(ctx context.Context, rec reminder.Recipient, text string, metadata json.RawMessage) error {
	return s.dispatcher.Send(ctx, message.OutboundMessage{
		Channel: rec.Channel,
		Chat:    message.Chat{ID: rec.ReplyTarget()},
		Text:    text,
		Raw:     metadata,
	})
}
