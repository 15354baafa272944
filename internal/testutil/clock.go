package testutil

import (
	"sync"
	"time"
)

// DefaultClockStart is the first instant a DeterministicClock returns when
// no start is given.
var DefaultClockStart = time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)

// DeterministicClock is a wall clock for tests that advances by a fixed
// step on every call, so recorded timestamps are reproducible and strictly
// increasing.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewDeterministicClock creates a clock whose first Now() returns start
// (DefaultClockStart if zero) and each later call step after the previous.
func NewDeterministicClock(start time.Time, step time.Duration) *DeterministicClock {
	if start.IsZero() {
		start = DefaultClockStart
	}
	return &DeterministicClock{start: start.UTC(), step: step}
}

// Now returns the next instant.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *DeterministicClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next Now() returns the start again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
