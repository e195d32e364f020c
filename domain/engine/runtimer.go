package engine

import (
	"sync"
	"time"
)

// RunTimer tracks how long the current run has been actively working and
// the total active time accumulated across runs. Paused and idle periods
// are excluded. Concurrency-safe; the engine feeds it from state
// transitions and callers may read Values from any goroutine.
type RunTimer struct {
	mu          sync.Mutex
	active      bool
	activeSince time.Time
	current     time.Duration
	accumulated time.Duration
}

// NewRunTimer returns a ready-to-use RunTimer.
func NewRunTimer() *RunTimer { return &RunTimer{} }

// Reset clears the current-run duration. Called when a new run starts;
// the accumulated total is kept.
func (t *RunTimer) Reset() {
	t.mu.Lock()
	t.current = 0
	t.active = false
	t.mu.Unlock()
}

// OnTick updates the timer with the current activity flag and timestamp.
func (t *RunTimer) OnTick(active bool, now time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if active {
		if !t.active {
			t.active = true
			t.activeSince = now
		}
		return
	}
	if t.active {
		seg := now.Sub(t.activeSince)
		t.current += seg
		t.accumulated += seg
		t.active = false
	}
}

// Values returns the current run's active duration and the accumulated
// total, both as of now. An ongoing active segment is included.
func (t *RunTimer) Values(now time.Time) (current, total time.Duration) {
	if t == nil {
		return 0, 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	current, total = t.current, t.accumulated
	if t.active {
		seg := now.Sub(t.activeSince)
		current += seg
		total += seg
	}
	return
}
