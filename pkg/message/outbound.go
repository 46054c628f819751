package message

import "encoding/json"

// OutboundMessage represents a message to be sent through a channel.
type OutboundMessage struct {
	// Channel names the channel module the message should be routed
	// through. Empty means "any channel the dispatcher picks".
	Channel string          `json:"channel,omitempty"`
	Chat    Chat            `json:"chat"`
	Text    string          `json:"text"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// NewTextMessage creates an outbound message addressed to chat.
func NewTextMessage(chat Chat, text string) OutboundMessage {
	return OutboundMessage{Chat: chat, Text: text}
}
