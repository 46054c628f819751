package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/flemzord/remindd/internal/reminder"
)

// ReminderView is the API representation of a pending reminder.
type ReminderView struct {
	ID        int64              `json:"id"`
	FireAt    time.Time          `json:"fire_at"`
	Recipient reminder.Recipient `json:"recipient"`
	Text      string             `json:"text"`
}

// CreateReminderRequest is the body of POST /api/reminders. The target is
// either a directory lookup (user) or an explicit recipient. The fire time
// is either a relative delay (in, Go duration syntax) or an absolute
// RFC 3339 timestamp (fire_at).
type CreateReminderRequest struct {
	User      string              `json:"user,omitempty"`
	Recipient *reminder.Recipient `json:"recipient,omitempty"`
	In        string              `json:"in,omitempty"`
	FireAt    string              `json:"fire_at,omitempty"`
	Text      string              `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleListReminders returns an http.HandlerFunc for GET /api/reminders.
// An optional ?room= query restricts the result to one room.
func (g *Gateway) handleListReminders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := r.URL.Query().Get("room")

		jobs := g.registry.List(func(j *reminder.Job) bool {
			return room == "" || j.Recipient.ReplyTarget() == room
		})

		views := make([]ReminderView, 0, len(jobs))
		for _, j := range jobs {
			views = append(views, ReminderView{
				ID:        j.ID,
				FireAt:    j.FireAt,
				Recipient: j.Recipient,
				Text:      j.Text,
			})
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// handleCreateReminder returns an http.HandlerFunc for POST /api/reminders.
func (g *Gateway) handleCreateReminder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		rec, errMsg := g.resolveRecipient(req)
		if errMsg != "" {
			writeError(w, http.StatusBadRequest, errMsg)
			return
		}

		fireAt, err := resolveFireTime(req, time.Now())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		id, err := g.registry.Create(r.Context(), fireAt, rec, strings.TrimSpace(req.Text), nil)
		if err != nil {
			g.logger.Error("gateway: create reminder", "error", err)
			writeError(w, http.StatusInternalServerError, "could not create reminder")
			return
		}

		writeJSON(w, http.StatusCreated, ReminderView{
			ID:        id,
			FireAt:    fireAt,
			Recipient: rec,
			Text:      strings.TrimSpace(req.Text),
		})
	}
}

// handleCancelReminder returns an http.HandlerFunc for DELETE
// /api/reminders/{id}.
func (g *Gateway) handleCancelReminder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid reminder id")
			return
		}

		if !g.registry.Cancel(r.Context(), id) {
			writeError(w, http.StatusNotFound, "no such reminder")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// resolveRecipient turns the request's target into a recipient snapshot.
// A non-empty second return value is a client-facing validation message.
func (g *Gateway) resolveRecipient(req CreateReminderRequest) (reminder.Recipient, string) {
	if req.Recipient != nil {
		if req.Recipient.Name == "" && req.Recipient.MentionName == "" {
			return reminder.Recipient{}, "recipient needs a name or mention_name"
		}
		return *req.Recipient, ""
	}

	if req.User == "" {
		return reminder.Recipient{}, "either user or recipient is required"
	}
	if g.users == nil {
		return reminder.Recipient{}, "no user directory configured"
	}

	matches := g.users.Resolve(req.User)
	switch len(matches) {
	case 0:
		return reminder.Recipient{}, fmt.Sprintf("no user named %q", req.User)
	case 1:
		return matches[0], ""
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return reminder.Recipient{}, fmt.Sprintf(
			"ambiguous user %q, candidates: %s", req.User, strings.Join(names, ", "))
	}
}

// resolveFireTime picks the fire time from the request: exactly one of in
// and fire_at must be set, and the result must be in the future.
func resolveFireTime(req CreateReminderRequest, now time.Time) (time.Time, error) {
	switch {
	case req.In != "" && req.FireAt != "":
		return time.Time{}, fmt.Errorf("set either in or fire_at, not both")
	case req.In != "":
		d, err := time.ParseDuration(req.In)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid duration %q", req.In)
		}
		if d <= 0 {
			return time.Time{}, fmt.Errorf("duration must be positive")
		}
		return now.Add(d), nil
	case req.FireAt != "":
		at, err := time.Parse(time.RFC3339, req.FireAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid fire_at, want RFC 3339")
		}
		if !at.After(now) {
			return time.Time{}, fmt.Errorf("fire_at must be in the future")
		}
		return at, nil
	default:
		return time.Time{}, fmt.Errorf("either in or fire_at is required")
	}
}
