// Package perf tracks the cost of logging operations: how often entries
// are built and emitted and how long each operation takes.
package perf

import (
	"sync"
	"time"
)

// OpStats summarizes recorded durations for one operation.
type OpStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Avg returns the mean duration, or zero when nothing was recorded.
func (s OpStats) Avg() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Tracker accumulates per-operation timing under a mutex. The zero
// value is not usable; create with NewTracker.
type Tracker struct {
	mu  sync.Mutex
	ops map[string]OpStats
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ops: make(map[string]OpStats)}
}

// Record adds one observation for the operation.
func (t *Tracker) Record(op string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.ops[op]
	if s.Count == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Count++
	s.Total += d
	t.ops[op] = s
}

// Stats returns a snapshot of all recorded operations.
func (t *Tracker) Stats() map[string]OpStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]OpStats, len(t.ops))
	for op, s := range t.ops {
		out[op] = s
	}
	return out
}

// Reset clears all recorded operations.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = make(map[string]OpStats)
}
