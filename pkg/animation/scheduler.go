package animation

// Scheduler owns the set of active springs and the frame-tick
// subscriptions. The host (or the runtime's Frame call) steps it once per
// frame; everything here runs on the single cooperative UI thread.
type Scheduler struct {
	active []*Spring
	subs   map[int]func()
	nextID int
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{subs: make(map[int]func())}
}

// Add registers a spring so it is stepped each frame. Adding an already
// active spring is a no-op. Re-add a spring after retargeting it; settled
// springs are dropped from the active set on the next step.
func (sc *Scheduler) Add(s *Spring) {
	for _, existing := range sc.active {
		if existing == s {
			return
		}
	}
	sc.active = append(sc.active, s)
}

// Remove drops a spring from the active set, e.g. when its owning
// component unmounts.
func (sc *Scheduler) Remove(s *Spring) {
	for i, existing := range sc.active {
		if existing == s {
			sc.active = append(sc.active[:i], sc.active[i+1:]...)
			return
		}
	}
}

// ActiveCount returns the number of springs still being stepped.
func (sc *Scheduler) ActiveCount() int {
	count := 0
	for _, s := range sc.active {
		if !s.Settled() {
			count++
		}
	}
	return count
}

// Tracked returns the total number of registered springs, settled or not.
func (sc *Scheduler) Tracked() int {
	return len(sc.active)
}

// SubscribeTick registers a callback invoked after every step. This is
// the explicit coupling point between the scheduler and re-rendering: a
// component that wants to redraw per frame subscribes a redraw request
// here. Returns an unsubscribe function.
func (sc *Scheduler) SubscribeTick(fn func()) func() {
	id := sc.nextID
	sc.nextID++
	sc.subs[id] = fn
	return func() {
		delete(sc.subs, id)
	}
}

// Step advances every unsettled spring by dt seconds. Springs that settle
// during the step are removed from the active set, so settled springs
// incur no further per-frame cost. Tick subscribers run after every step.
func (sc *Scheduler) Step(dt float64) {
	remaining := sc.active[:0]
	for _, s := range sc.active {
		if s.Settled() {
			continue
		}
		if !s.Step(dt) {
			remaining = append(remaining, s)
		}
	}
	// Zero the dropped tail so settled springs are not retained.
	for i := len(remaining); i < len(sc.active); i++ {
		sc.active[i] = nil
	}
	sc.active = remaining

	for _, fn := range sc.subs {
		fn()
	}
}
