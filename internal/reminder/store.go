package reminder

import (
	"context"
	"encoding/json"
	"time"
)

// Record is the durable representation of a pending job. The job id is the
// store's key and is not repeated in the value.
type Record struct {
	FireAt    time.Time       `json:"fire_at"`
	Recipient Recipient       `json:"recipient"`
	Text      string          `json:"text"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// Valid reports whether the record can be reconstructed into a Job. Records
// loaded from the store that fail this check are skipped during recovery.
func (r Record) Valid() bool {
	return !r.FireAt.IsZero() && (r.Recipient.Name != "" || r.Recipient.MentionName != "")
}

// Store is the durable persistence layer for pending jobs. Implementations
// must survive process restarts; the in-memory implementation exists for
// tests and ephemeral runs.
type Store interface {
	// Put inserts or overwrites the record for id.
	Put(ctx context.Context, id int64, rec Record) error

	// Remove deletes the record for id. Removing an absent id is not an
	// error.
	Remove(ctx context.Context, id int64) error

	// LoadAll returns every persisted record. It is called once at
	// startup, before any new job is created.
	LoadAll(ctx context.Context) (map[int64]Record, error)
}
