// Package message defines the platform-agnostic data contract between
// channels and the reminder bot.
package message

// Sender identifies the author of an inbound message.
type Sender struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	MentionName string `json:"mention_name,omitempty"`
}

// Chat identifies the conversation a message belongs to. For reminder
// delivery this is the room (or reply target) a notification is sent to.
type Chat struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}
