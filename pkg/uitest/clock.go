package uitest

import "time"

// epoch is an arbitrary fixed instant so failure output carries stable
// timestamps across runs.
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a manually advanced clock. The runtime is frame-synchronous
// and single-threaded, so the clock moves only when a test pumps it; no
// locking is needed.
type FakeClock struct {
	now time.Time
}

// NewFakeClock returns a clock starting at the given instant, or at a
// fixed default epoch when start is the zero time.
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = epoch
	}
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// Set jumps the clock to an exact instant.
func (c *FakeClock) Set(t time.Time) {
	c.now = t
}
