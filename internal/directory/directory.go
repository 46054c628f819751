// Package directory provides a config-backed user directory with fuzzy name
// resolution. The bot asks it who "al" is; the directory answers with zero,
// one, or many candidates and lets the caller decide what to do with
// ambiguity.
package directory

import (
	"strings"

	"github.com/flemzord/remindd/internal/reminder"
)

// User is one directory entry.
type User struct {
	ID          string
	Name        string
	MentionName string
	Room        string
	Channel     string
}

// Directory resolves user names to recipient snapshots.
type Directory struct {
	users          []User
	defaultChannel string
}

// New creates a directory over the given users. Users without an explicit
// channel inherit defaultChannel.
func New(users []User, defaultChannel string) *Directory {
	return &Directory{users: users, defaultChannel: defaultChannel}
}

// Resolve returns recipient snapshots for every user matching the query.
// An exact (case-insensitive) name or mention-name match wins outright;
// otherwise every user whose name starts with the query is a candidate.
func (d *Directory) Resolve(query string) []reminder.Recipient {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var prefix []reminder.Recipient
	for _, u := range d.users {
		name := strings.ToLower(u.Name)
		mention := strings.ToLower(u.MentionName)
		if name == q || (mention != "" && mention == q) {
			return []reminder.Recipient{d.snapshot(u)}
		}
		if strings.HasPrefix(name, q) {
			prefix = append(prefix, d.snapshot(u))
		}
	}
	return prefix
}

// snapshot builds an independent recipient copy; pending jobs must not be
// affected by later directory changes.
func (d *Directory) snapshot(u User) reminder.Recipient {
	ch := u.Channel
	if ch == "" {
		ch = d.defaultChannel
	}
	return reminder.Recipient{
		ID:          u.ID,
		Name:        u.Name,
		MentionName: u.MentionName,
		Room:        u.Room,
		Channel:     ch,
	}
}
