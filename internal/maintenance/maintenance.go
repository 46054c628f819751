// Package maintenance runs periodic housekeeping for the reminder daemon:
// a store/registry drift check and a SQLite checkpoint pass. These jobs are
// operational hygiene, not user-visible schedules.
package maintenance

import "context"

// Job is one periodic housekeeping task.
type Job interface {
	// Name identifies the job in logs and must be unique per scheduler.
	Name() string

	// Schedule returns the job's five-field cron expression.
	Schedule() string

	// Run executes one pass. Long-running passes should honor ctx, which
	// is cancelled when the scheduler stops.
	Run(ctx context.Context) error
}
