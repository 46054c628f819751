package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/flemzord/remindd/internal/reminder"
)

// Store persists reminder records in a SQLite table keyed by job id.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time interface check.
var _ reminder.Store = (*Store)(nil)

// Put inserts or overwrites the record for id.
func (s *Store) Put(ctx context.Context, id int64, rec reminder.Record) error {
	recipientJSON, err := json.Marshal(rec.Recipient)
	if err != nil {
		return fmt.Errorf("sqlite: marshal recipient: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders (id, fire_at, recipient, text, metadata)
		VALUES (?, ?, ?, ?, ?)`,
		id,
		rec.FireAt.UTC().Format(time.RFC3339Nano),
		string(recipientJSON),
		rec.Text,
		string(rec.Metadata),
	)
	if err != nil {
		return fmt.Errorf("sqlite: put reminder %d: %w", id, err)
	}
	return nil
}

// Remove deletes the record for id. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id); err != nil {
		return fmt.Errorf("sqlite: remove reminder %d: %w", id, err)
	}
	return nil
}

// LoadAll returns every persisted record. Rows whose stored value cannot be
// decoded are logged and skipped so one corrupt row never blocks recovery of
// the rest.
func (s *Store) LoadAll(ctx context.Context) (map[int64]reminder.Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, fire_at, recipient, text, metadata FROM reminders")
	if err != nil {
		return nil, fmt.Errorf("sqlite: load reminders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make(map[int64]reminder.Record)
	for rows.Next() {
		var (
			id            int64
			fireAtStr     string
			recipientJSON string
			text          string
			metadata      string
		)
		if err := rows.Scan(&id, &fireAtStr, &recipientJSON, &text, &metadata); err != nil {
			return nil, fmt.Errorf("sqlite: scan reminder: %w", err)
		}

		fireAt, err := time.Parse(time.RFC3339Nano, fireAtStr)
		if err != nil {
			s.logger.Warn("sqlite: skipping reminder with unparseable fire time",
				"id", id, "fire_at", fireAtStr, "error", err)
			continue
		}

		var recipient reminder.Recipient
		if err := json.Unmarshal([]byte(recipientJSON), &recipient); err != nil {
			s.logger.Warn("sqlite: skipping reminder with unparseable recipient",
				"id", id, "error", err)
			continue
		}

		rec := reminder.Record{
			FireAt:    fireAt,
			Recipient: recipient,
			Text:      text,
		}
		if metadata != "" {
			rec.Metadata = json.RawMessage(metadata)
		}
		records[id] = rec
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: load reminders rows: %w", err)
	}
	return records, nil
}

// Len counts the stored reminders.
func (s *Store) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count reminders: %w", err)
	}
	return count, nil
}
