package uitest

import (
	"errors"
	"testing"
	"time"

	"github.com/go-loom/loom/pkg/core"
	"github.com/go-loom/loom/pkg/geometry"
)

const (
	// DefaultTestWidth is the default viewport width.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default viewport height.
	DefaultTestHeight = 600
	// FramePeriod is the simulated frame duration for Pump.
	FramePeriod = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its budget of
// simulated time without the runtime going idle.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: runtime did not settle")

// Tester drives a runtime against a recording backend with a fake
// clock. It runs the same pipeline as a live host, one deterministic
// frame at a time.
type Tester struct {
	Backend *RecordingBackend
	Runtime *core.Runtime

	clock  *FakeClock
	handle *core.MountHandle
}

// NewTester creates a tester with an 800x600 viewport and registers
// unmount with t.Cleanup.
func NewTester(t *testing.T, opts core.Options) *Tester {
	if opts.Viewport.IsEmpty() {
		opts.Viewport = geometry.Size{Width: DefaultTestWidth, Height: DefaultTestHeight}
	}
	backend := NewRecordingBackend()
	tester := &Tester{
		Backend: backend,
		Runtime: core.NewRuntime(backend, opts),
		clock:   NewFakeClock(time.Time{}),
	}
	t.Cleanup(tester.Unmount)
	return tester
}

// Clock returns the fake clock.
func (ts *Tester) Clock() *FakeClock {
	return ts.clock
}

// Mount attaches a root component and commits the first frame.
func (ts *Tester) Mount(fn core.ComponentFunc, props any) error {
	h, err := ts.Runtime.Mount(fn, props)
	ts.handle = h
	return err
}

// Unmount tears the mounted tree down. Safe to call twice.
func (ts *Tester) Unmount() {
	if ts.handle != nil {
		ts.handle.Unmount()
		ts.handle = nil
	}
}

// Pump advances the clock by one frame period and runs one frame.
func (ts *Tester) Pump() error {
	return ts.PumpFor(FramePeriod)
}

// PumpFor advances the clock by d and runs one frame of that length.
func (ts *Tester) PumpFor(d time.Duration) error {
	ts.clock.Advance(d)
	return ts.Runtime.Frame(d)
}

// PumpAndSettle pumps frames until the runtime is idle: no unsettled
// springs, no pending rebuilds. It gives up after timeout of simulated
// time.
func (ts *Tester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for {
		if err := ts.Pump(); err != nil {
			return err
		}
		if ts.Runtime.Idle() {
			return nil
		}
		elapsed += FramePeriod
		if elapsed >= timeout {
			return ErrSettleTimeout
		}
	}
}
