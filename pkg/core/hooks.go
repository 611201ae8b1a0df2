package core

import (
	"github.com/go-loom/loom/pkg/animation"
)

// Setter updates a state slot. Both forms coalesce: every update made
// before the next frame flush is applied to the same batched rebuild.
type Setter[T any] struct {
	rt   *Runtime
	id   instanceID
	gen  uint64
	slot int
}

// Set replaces the state value and schedules a rebuild of the owning
// component. Calls after the owning instance unmounted are ignored, even
// once its arena id has been recycled by a later mount.
func (st *Setter[T]) Set(v T) {
	inst := st.rt.arena.resolve(st.id, st.gen)
	if inst == nil {
		return
	}
	inst.slots[st.slot].value = v
	st.rt.markDirty(st.id)
}

// Update derives the next value from the previous one. Updater calls see
// earlier updates from the same batch.
func (st *Setter[T]) Update(fn func(prev T) T) {
	inst := st.rt.arena.resolve(st.id, st.gen)
	if inst == nil {
		return
	}
	s := &inst.slots[st.slot]
	s.value = fn(s.value.(T))
	st.rt.markDirty(st.id)
}

// UseState declares a persistent state slot initialized on first render.
// The value survives re-renders as long as the instance identity does.
func UseState[T any](ctx *BuildContext, initial T) (T, *Setter[T]) {
	s := ctx.nextSlot(slotState)
	if s.value == nil {
		s.value = initial
	}
	return s.value.(T), &Setter[T]{rt: ctx.rt, id: ctx.id, gen: ctx.gen, slot: ctx.cursor - 1}
}

// Ref is a mutable box that persists across renders without triggering
// rebuilds when written.
type Ref[T any] struct {
	Current T
}

// UseRef declares a ref slot. Writes to Current are invisible to the
// reconciler.
func UseRef[T any](ctx *BuildContext, initial T) *Ref[T] {
	s := ctx.nextSlot(slotRef)
	if s.value == nil {
		s.value = &Ref[T]{Current: initial}
	}
	return s.value.(*Ref[T])
}

// UseEffect registers a side effect that runs after the commit in which
// its dependencies changed. The returned cleanup, if any, runs before the
// next execution and on unmount. Pass a nil deps slice to run after every
// commit, or an empty non-nil slice to run once on mount.
func UseEffect(ctx *BuildContext, fn func() func(), deps []any) {
	s := ctx.nextSlot(slotEffect)
	due := !s.ran || deps == nil || !s.hasDeps || !depsEqual(s.deps, deps)
	s.effect = fn
	s.deps = deps
	s.hasDeps = deps != nil
	if due {
		s.due = true
	}
}

// SpringValue is the author-facing handle to a spring slot. Reading Value
// is passive; animating the tree requires an explicit frame subscription
// (see UseFrameTick).
type SpringValue struct {
	rt     *Runtime
	id     instanceID
	gen    uint64
	spring *animation.Spring
}

// Value returns the spring's current position.
func (sv *SpringValue) Value() float64 {
	return sv.spring.Value()
}

// Target returns the spring's current target.
func (sv *SpringValue) Target() float64 {
	return sv.spring.Target()
}

// Velocity returns the spring's current velocity.
func (sv *SpringValue) Velocity() float64 {
	return sv.spring.Velocity()
}

// Settled reports whether the spring is at rest on its target.
func (sv *SpringValue) Settled() bool {
	return sv.spring.Settled()
}

// SetTarget retargets the spring, preserving current position and
// velocity, and re-enters it into the active simulation set. Retargets
// after the owning instance unmounted are ignored.
func (sv *SpringValue) SetTarget(v float64) {
	if sv.rt.arena.resolve(sv.id, sv.gen) == nil {
		return
	}
	sv.spring.SetTarget(v)
	sv.rt.scheduler.Add(sv.spring)
}

// UpdateTarget retargets relative to the previous target.
func (sv *SpringValue) UpdateTarget(fn func(prev float64) float64) {
	if sv.rt.arena.resolve(sv.id, sv.gen) == nil {
		return
	}
	sv.spring.UpdateTarget(fn)
	sv.rt.scheduler.Add(sv.spring)
}

// UseSpring declares a spring slot with the given physics and initial
// value. The spring is stepped by the runtime each frame and removed from
// the active set when it settles.
func UseSpring(ctx *BuildContext, spec animation.SpringSpec, initial float64) *SpringValue {
	s := ctx.nextSlot(slotSpring)
	if s.spring == nil {
		s.spring = animation.NewSpring(spec, initial)
	}
	return &SpringValue{rt: ctx.rt, id: ctx.id, gen: ctx.gen, spring: s.spring}
}

// UseFrameTick subscribes the component to the frame clock: it is rebuilt
// on every runtime frame until unmount. Spring reads stay fresh only
// under an active tick subscription; without one the tree simply does not
// redraw.
func UseFrameTick(ctx *BuildContext) {
	s := ctx.nextSlot(slotTick)
	if s.unsub == nil {
		rt, id, gen := ctx.rt, ctx.id, ctx.gen
		s.unsub = rt.scheduler.SubscribeTick(func() {
			if rt.arena.resolve(id, gen) != nil {
				rt.markDirty(id)
			}
		})
	}
}
