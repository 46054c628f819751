package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts standard five-field cron expressions only.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// entry pairs a job with its run guard. The guard is held for the duration
// of one run; a tick that cannot take it is skipped, so a slow checkpoint
// never stacks up behind itself.
type entry struct {
	job     Job
	running sync.Mutex
}

// Scheduler drives the housekeeping jobs on their cron schedules.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries []*entry
	cron    *cron.Cron
	cancel  context.CancelFunc
}

// NewScheduler creates an empty scheduler. Add jobs before calling Start.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// Add registers a job under its name. Names must be unique.
func (s *Scheduler) Add(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.job.Name() == j.Name() {
			return fmt.Errorf("maintenance: job %q already added", j.Name())
		}
	}
	s.entries = append(s.entries, &entry{job: j})
	return nil
}

// Start validates every schedule and begins ticking. An invalid expression
// fails the whole start; nothing runs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithParser(scheduleParser))

	for _, e := range s.entries {
		if _, err := c.AddFunc(e.job.Schedule(), s.tick(ctx, e)); err != nil {
			cancel()
			return fmt.Errorf("maintenance: schedule %q for job %q: %w",
				e.job.Schedule(), e.job.Name(), err)
		}
	}

	s.cron = c
	s.cancel = cancel
	c.Start()
	s.logger.Info("maintenance: scheduler started", "jobs", len(s.entries))
	return nil
}

// tick wraps one run of e's job with the skip-if-running guard. Job errors
// are logged, never propagated; a failed reconcile must not take the
// scheduler down.
func (s *Scheduler) tick(ctx context.Context, e *entry) func() {
	return func() {
		if !e.running.TryLock() {
			s.logger.Warn("maintenance: previous run still in flight, skipping tick",
				"job", e.job.Name())
			return
		}
		defer e.running.Unlock()

		if err := e.job.Run(ctx); err != nil {
			s.logger.Error("maintenance: job failed", "job", e.job.Name(), "error", err)
			return
		}
		s.logger.Debug("maintenance: job completed", "job", e.job.Name())
	}
}

// Stop halts ticking and waits for in-flight runs to finish. Safe to call
// without a prior Start.
func (s *Scheduler) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
		s.logger.Info("maintenance: scheduler stopped")
	}
	return nil
}
