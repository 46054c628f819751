package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/flemzord/remindd/pkg/message"
)

// Dispatcher routes outbound messages to registered channels by name.
type Dispatcher struct {
	mu       sync.RWMutex
	channels map[string]Channel
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{channels: make(map[string]Channel)}
}

// Register adds a channel under its name.
func (d *Dispatcher) Register(ch Channel) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := ch.Name()
	if _, exists := d.channels[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateChannel, name)
	}
	d.channels[name] = ch
	return nil
}

// Send routes msg to the channel named in msg.Channel. When msg.Channel is
// empty and exactly one channel is registered, that channel is used.
func (d *Dispatcher) Send(ctx context.Context, msg message.OutboundMessage) error {
	d.mu.RLock()
	total := len(d.channels)
	ch, ok := d.channels[msg.Channel]
	if !ok && msg.Channel == "" && total == 1 {
		for _, only := range d.channels {
			ch, ok = only, true
		}
	}
	d.mu.RUnlock()

	if !ok {
		if total == 0 {
			return ErrNoChannels
		}
		return fmt.Errorf("%w: %q", ErrUnknownChannel, msg.Channel)
	}
	return ch.Send(ctx, msg)
}

// Channels returns the names of all registered channels.
func (d *Dispatcher) Channels() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.channels))
	for name := range d.channels {
		names = append(names, name)
	}
	return names
}
