// Package reminder implements the core of the reminder scheduler: the Job
// model, the durable Store contract, the in-memory Registry of pending jobs,
// and the one-shot timers that fire notifications at the scheduled moment.
package reminder

import (
	"encoding/json"
	"fmt"
	"time"
)

// Recipient is a snapshot of the target user's identity and delivery
// destination, taken at job creation time. It is copied by value so later
// mutations in the upstream user directory never affect a pending job.
type Recipient struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	MentionName string `json:"mention_name,omitempty"`
	Room        string `json:"room,omitempty"`
	ReplyTo     string `json:"reply_to,omitempty"`
	// Channel names the channel module the notification should be
	// delivered through.
	Channel string `json:"channel,omitempty"`
}

// Mention returns the name used to address the recipient: the mention name
// when set, otherwise the display name.
func (r Recipient) Mention() string {
	if r.MentionName != "" {
		return r.MentionName
	}
	return r.Name
}

// ReplyTarget returns the delivery destination: the reply target when set,
// otherwise the room.
func (r Recipient) ReplyTarget() string {
	if r.ReplyTo != "" {
		return r.ReplyTo
	}
	return r.Room
}

// Job is one pending reminder with a fixed future fire time. Jobs are
// immutable after creation; the only state change is removal (fired or
// cancelled).
type Job struct {
	ID        int64
	FireAt    time.Time
	Recipient Recipient
	Text      string
	// Metadata is opaque context captured from the triggering request,
	// passed through unchanged to the notification sink at fire time.
	Metadata json.RawMessage
}

// RenderText returns the notification text for the job.
func (j *Job) RenderText() string {
	return fmt.Sprintf("Hey @%s remember: %s", j.Recipient.Mention(), j.Text)
}

// record returns the durable representation of the job. The id is the
// store's key, not part of the value.
func (j *Job) record() Record {
	return Record{
		FireAt:    j.FireAt,
		Recipient: j.Recipient,
		Text:      j.Text,
		Metadata:  j.Metadata,
	}
}
