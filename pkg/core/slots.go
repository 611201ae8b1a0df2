package core

import (
	"github.com/go-loom/loom/pkg/animation"
)

// slotKind discriminates what a hook slot stores.
type slotKind int

const (
	slotState slotKind = iota
	slotRef
	slotEffect
	slotSpring
	slotTick
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "state"
	case slotRef:
		return "ref"
	case slotEffect:
		return "effect"
	case slotSpring:
		return "spring"
	case slotTick:
		return "frame-tick"
	default:
		return "unknown"
	}
}

// slot is one ordered hook cell on a component instance. Slots survive
// re-renders; their order is fixed by the component's call sequence.
type slot struct {
	kind slotKind

	// state and ref slots.
	value any

	// effect slots.
	effect  func() func()
	deps    []any
	hasDeps bool
	ran     bool
	due     bool
	cleanup func()

	// spring slots.
	spring *animation.Spring

	// frame-tick slots.
	unsub func()
}

// depsEqual compares dependency lists element-wise with ==.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
