package channel

import "errors"

var (
	// ErrNoInbox is returned when a channel receives an inbound message
	// before SetInbox was called.
	ErrNoInbox = errors.New("channel: inbox not wired")

	// ErrUnknownChannel is returned by the dispatcher when no channel is
	// registered under the requested name.
	ErrUnknownChannel = errors.New("channel: unknown channel")

	// ErrDuplicateChannel is returned when registering a name twice.
	ErrDuplicateChannel = errors.New("channel: duplicate channel")

	// ErrNoChannels is returned when a message cannot be delivered because
	// no channel is registered at all.
	ErrNoChannels = errors.New("channel: no channels registered")
)
