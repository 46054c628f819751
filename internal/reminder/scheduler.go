package reminder

import (
	"sync"
	"time"
)

// scheduler owns exactly one timer per armed job id. A timer counts down to
// the job's absolute fire time and runs its callback once; deadlines already
// in the past fire immediately rather than being dropped.
type scheduler struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[int64]*time.Timer)}
}

// arm schedules onFire to run once at fireAt. Arming an already-armed id
// replaces its timer.
func (s *scheduler) arm(id int64, fireAt time.Time, onFire func()) {
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[id]; ok {
		old.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, onFire)
}

// disarm cancels the timer for id. It reports whether a timer was armed;
// disarming a fired or unknown id is a no-op.
func (s *scheduler) disarm(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	return true
}

// forget drops the bookkeeping for a timer that has already fired.
func (s *scheduler) forget(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, id)
}

// stopAll disarms every timer. Used on shutdown.
func (s *scheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
