package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/flemzord/remindd/internal/reminder"
)

// Pending is the subset of the registry the reconcile job needs. Defined
// here to keep the dependency one-directional.
type Pending interface {
	PendingIDs() []int64
}

// ReconcileJob compares the durable store against the in-memory registry
// and reports drift. Outside the brief create/cancel windows the two must
// agree on the set of pending ids; persistent drift means a bug or a store
// written by another process.
type ReconcileJob struct {
	Store        reminder.Store
	Registry     Pending
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*ReconcileJob)(nil)

// Name implements Job.
func (j *ReconcileJob) Name() string { return "reconcile" }

// Schedule implements Job.
func (j *ReconcileJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run implements Job.
func (j *ReconcileJob) Run(ctx context.Context) error {
	records, err := j.Store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("maintenance: reconcile load: %w", err)
	}

	pending := j.Registry.PendingIDs()

	var onlyStore, onlyRegistry []int64
	for id := range records {
		if !slices.Contains(pending, id) {
			onlyStore = append(onlyStore, id)
		}
	}
	for _, id := range pending {
		if _, ok := records[id]; !ok {
			onlyRegistry = append(onlyRegistry, id)
		}
	}

	if len(onlyStore) > 0 || len(onlyRegistry) > 0 {
		j.Logger.Warn("maintenance: store/registry drift",
			"store_only", onlyStore,
			"registry_only", onlyRegistry,
		)
		return nil
	}

	j.Logger.Debug("maintenance: store and registry agree", "pending", len(pending))
	return nil
}

// CheckpointJob truncates the SQLite WAL and vacuums the database. Only
// registered when the daemon runs on the SQLite store.
type CheckpointJob struct {
	DB           *sql.DB
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 * * * *"
}

// Compile-time interface check.
var _ Job = (*CheckpointJob)(nil)

// Name implements Job.
func (j *CheckpointJob) Name() string { return "checkpoint" }

// Schedule implements Job.
func (j *CheckpointJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run implements Job.
func (j *CheckpointJob) Run(ctx context.Context) error {
	if _, err := j.DB.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("maintenance: wal checkpoint: %w", err)
	}
	if _, err := j.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("maintenance: vacuum: %w", err)
	}
	j.Logger.Debug("maintenance: checkpoint completed")
	return nil
}
