package reminder

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/flemzord/remindd/internal/reminder")

const (
	// idSpace matches the original six-digit reminder ids. Ids only need
	// to be unique among currently pending jobs, not across history.
	idSpace = 1_000_000

	// maxIDAttempts bounds the random-id collision retry loop. Exhausting
	// it means the id space is effectively full and Create fails loudly.
	maxIDAttempts = 64
)

// ErrIDSpaceExhausted is returned by Create when no free id could be drawn.
var ErrIDSpaceExhausted = errors.New("reminder: id space exhausted")

// ErrClosed is returned by Create on a registry that has been shut down.
var ErrClosed = errors.New("reminder: registry closed")

// Registry is the single source of truth for pending reminders. It bridges
// the durable Store and the in-memory timers: every pending job has exactly
// one store record and one armed timer. A single mutex serializes create,
// cancel, restore, and fired-cleanup, so the store and the in-memory map
// only ever disagree inside one of those critical sections.
type Registry struct {
	store  Store
	sink   Sink
	logger *slog.Logger

	mu     sync.Mutex
	jobs   map[int64]*Job
	timers *scheduler
	closed bool
}

// NewRegistry creates a registry. Call Restore before accepting requests so
// jobs persisted by a previous process are re-armed.
func NewRegistry(store Store, sink Sink, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  store,
		sink:   sink,
		logger: logger,
		jobs:   make(map[int64]*Job),
		timers: newScheduler(),
	}
}

// Create allocates a fresh id, arms a one-shot timer for fireAt, persists
// the job, and registers it in memory. The recipient is captured by value:
// the stored snapshot never changes even if the upstream directory does.
// If persistence fails the timer is rolled back and no job exists.
func (r *Registry) Create(ctx context.Context, fireAt time.Time, rec Recipient, text string, metadata json.RawMessage) (int64, error) {
	ctx, span := tracer.Start(ctx, "reminder.create")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}

	id, err := r.allocateID()
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("reminder.id", id))

	job := &Job{
		ID:        id,
		FireAt:    fireAt,
		Recipient: rec,
		Text:      text,
		Metadata:  metadata,
	}

	r.timers.arm(id, fireAt, func() { r.fire(id) })
	if err := r.store.Put(ctx, id, job.record()); err != nil {
		// No timer may outlive a failed persist.
		r.timers.disarm(id)
		return 0, fmt.Errorf("reminder: persist job %d: %w", id, err)
	}
	r.jobs[id] = job

	metricCreated.Inc()
	metricPending.Set(float64(len(r.jobs)))
	r.logger.Info("reminder created",
		"id", id,
		"fire_at", fireAt,
		"recipient", rec.Mention(),
	)
	return id, nil
}

// Cancel disarms and removes the job for id. It reports whether a pending
// job existed; cancelling an unknown id is a defined "nothing to forget"
// result, not an error.
func (r *Registry) Cancel(ctx context.Context, id int64) bool {
	ctx, span := tracer.Start(ctx, "reminder.cancel")
	defer span.End()
	span.SetAttributes(attribute.Int64("reminder.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return false
	}

	r.timers.disarm(id)
	delete(r.jobs, id)
	if err := r.store.Remove(ctx, id); err != nil {
		r.logger.Error("reminder: remove cancelled job from store", "id", id, "error", err)
	}

	metricCancelled.Inc()
	metricPending.Set(float64(len(r.jobs)))
	r.logger.Info("reminder cancelled", "id", id)
	return true
}

// List returns the pending jobs matching pred, sorted by id. A nil pred
// matches everything.
func (r *Registry) List(pred func(*Job) bool) []*Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	var jobs []*Job
	for _, job := range r.jobs {
		if pred == nil || pred(job) {
			jobs = append(jobs, job)
		}
	}
	slices.SortFunc(jobs, func(a, b *Job) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return jobs
}

// Len returns the number of pending jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// PendingIDs returns the ids of all pending jobs, sorted.
func (r *Registry) PendingIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Restore loads every persisted record and re-arms a timer for each,
// computing the remaining delay from the stored absolute fire time. Jobs
// whose fire time already passed fire immediately. A malformed record is
// logged and skipped; it never aborts recovery of the remaining records.
func (r *Registry) Restore(ctx context.Context) error {
	records, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("reminder: load stored jobs: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	restored := 0
	for id, rec := range records {
		if !rec.Valid() {
			metricMalformed.Inc()
			r.logger.Warn("reminder: skipping malformed stored record", "id", id)
			continue
		}
		r.recoverLocked(id, rec)
		restored++
	}

	metricPending.Set(float64(len(r.jobs)))
	if restored > 0 || len(records) > 0 {
		r.logger.Info("reminders restored", "restored", restored, "stored", len(records))
	}
	return nil
}

// recoverLocked reconstructs a job from a stored record and arms its timer.
// The record is already persisted, so nothing is written back to the store,
// and the id comes from the store key rather than a fresh allocation.
func (r *Registry) recoverLocked(id int64, rec Record) {
	job := &Job{
		ID:        id,
		FireAt:    rec.FireAt,
		Recipient: rec.Recipient,
		Text:      rec.Text,
		Metadata:  rec.Metadata,
	}
	r.jobs[id] = job
	r.timers.arm(id, rec.FireAt, func() { r.fire(id) })
	metricRestored.Inc()
}

// fire runs on the job's timer goroutine when its deadline is reached. The
// job is claimed inside one critical section before the sink is invoked: it
// leaves the pending set and the store first, so a Cancel arriving once
// firing has begun observes not-found instead of reporting success for a
// reminder that is being delivered, and the freed id cannot be reallocated
// while its old record still exists. The sink runs outside the registry lock
// so a slow delivery never blocks arming or cancelling of other jobs.
// Removal before delivery is the at-most-once direction: a crash mid-delivery
// loses the notification rather than duplicating it on restart.
func (r *Registry) fire(id int64) {
	ctx, span := tracer.Start(context.Background(), "reminder.fire")
	span.SetAttributes(attribute.Int64("reminder.id", id))
	defer span.End()

	r.mu.Lock()
	job, ok := r.jobs[id]
	if ok {
		delete(r.jobs, id)
		r.timers.forget(id)
		if err := r.store.Remove(ctx, id); err != nil {
			r.logger.Error("reminder: remove fired job from store", "id", id, "error", err)
		}
		metricFired.Inc()
		metricPending.Set(float64(len(r.jobs)))
	}
	r.mu.Unlock()

	if !ok {
		// Lost the race against a near-simultaneous cancel.
		return
	}
	r.logger.Info("reminder fired", "id", id)

	if err := r.sink.Deliver(ctx, job.Recipient, job.RenderText(), job.Metadata); err != nil {
		metricDeliveryFailures.Inc()
		r.logger.Error("reminder: delivery failed",
			"id", id,
			"recipient", job.Recipient.Mention(),
			"error", err,
		)
	}
}

// Close stops every timer and rejects further creates. Pending jobs stay in
// the store and are restored on the next start.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.timers.stopAll()
}

// allocateID draws a uniform random id unused among pending jobs, retrying
// on collision. Random rather than sequential: ids are user-visible, and
// gaps left by crashed processes must not break allocation.
func (r *Registry) allocateID() (int64, error) {
	for range maxIDAttempts {
		id := rand.Int64N(idSpace)
		if _, taken := r.jobs[id]; !taken {
			return id, nil
		}
	}
	return 0, ErrIDSpaceExhausted
}
