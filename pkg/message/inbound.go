package message

import (
	"encoding/json"
	"strings"
	"time"
)

// InboundMessage represents a message received from a channel.
type InboundMessage struct {
	ID        string          `json:"id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Channel   string          `json:"channel"`
	Sender    Sender          `json:"sender"`
	Chat      Chat            `json:"chat"`
	ReplyTo   string          `json:"reply_to,omitempty"`
	Text      string          `json:"text"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// TrimmedText returns the message text with surrounding whitespace removed.
func (m *InboundMessage) TrimmedText() string {
	return strings.TrimSpace(m.Text)
}

// ReplyTarget returns where a response to this message should be sent:
// the explicit reply target when set, otherwise the chat itself.
func (m *InboundMessage) ReplyTarget() Chat {
	if m.ReplyTo != "" {
		return Chat{ID: m.ReplyTo}
	}
	return m.Chat
}
