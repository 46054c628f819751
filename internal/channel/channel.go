// Package channel defines the bridge between messaging platforms and the
// reminder bot: the Channel interface, a dispatcher routing outbound
// messages to the right channel, and the sink adapter that turns fired
// reminders into outbound messages.
package channel

import (
	"context"

	"github.com/flemzord/remindd/pkg/message"
)

// Channel is the bridge between a messaging platform and the bot. A channel
// receives messages from its platform and pushes them to the bot via the
// inbox callback; it receives outbound messages (replies and fired
// reminders) via Send.
type Channel interface {
	// Name returns the unique channel identifier (e.g. "channel.websocket").
	Name() string

	// Send delivers an outbound message to the platform.
	Send(ctx context.Context, msg message.OutboundMessage) error

	// SetInbox gives the channel a function to push inbound messages to
	// the bot. Called during wiring, before the channel starts accepting
	// connections.
	SetInbox(fn func(msg message.InboundMessage) error)
}
