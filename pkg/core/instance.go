package core

import (
	"github.com/go-loom/loom/pkg/geometry"
	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// instanceID indexes the instance arena. IDs are recycled through a free
// list once their instance is released.
type instanceID int

const nilInstance instanceID = -1

// instance is the persistent counterpart of a Node. Instances are
// created on first mount, mutated in place by reconciliation, and
// destroyed when their identity disappears from the tree.
type instance struct {
	id instanceID
	// gen distinguishes successive occupants of a recycled id. Stale
	// handles captured before a release carry the old generation and
	// no longer resolve.
	gen      uint64
	parent   instanceID
	children []instanceID

	// node is the last committed description for this position.
	node Node

	// slots are the ordered hook cells; component instances only.
	slots       []slot
	firstRender bool

	// theme is the effective theme at this position, ancestor
	// overrides applied.
	theme theme.Theme

	// handle is the host scene object; primitive instances only.
	handle *scene.Handle

	// box is the frame assigned by the last layout pass, relative to
	// the viewport origin.
	box geometry.Rect
	// item is the layout node built for the current frame; primitive
	// instances only, valid during one commit.
	item *layout.Item

	depth int
	inUse bool
}

// arena stores instances in a flat slice addressed by integer id. Freed
// ids are reused in LIFO order so long-lived trees stay compact.
type arena struct {
	items []*instance
	free  []instanceID
}

// alloc claims an instance record, reusing a freed id when possible.
func (a *arena) alloc(parent instanceID, node Node) *instance {
	var inst *instance
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		inst = a.items[id]
	} else {
		inst = &instance{id: instanceID(len(a.items))}
		a.items = append(a.items, inst)
	}
	inst.parent = parent
	inst.node = node
	inst.firstRender = true
	inst.inUse = true
	if parent != nilInstance {
		inst.depth = a.items[parent].depth + 1
	}
	return inst
}

// release returns an id to the free list. The record is cleared and its
// generation bumped, invalidating every handle that still points here.
func (a *arena) release(id instanceID) {
	inst := a.items[id]
	*inst = instance{id: id, gen: inst.gen + 1}
	a.free = append(a.free, id)
}

// get returns the live instance for id, or nil if the id is out of range
// or has been released.
func (a *arena) get(id instanceID) *instance {
	if id < 0 || int(id) >= len(a.items) {
		return nil
	}
	inst := a.items[id]
	if !inst.inUse {
		return nil
	}
	return inst
}

// resolve returns the live instance only if it is still the occupant the
// caller captured: a recycled id with a newer generation resolves to nil.
func (a *arena) resolve(id instanceID, gen uint64) *instance {
	inst := a.get(id)
	if inst == nil || inst.gen != gen {
		return nil
	}
	return inst
}

// live counts instances currently in use.
func (a *arena) live() int {
	n := 0
	for _, inst := range a.items {
		if inst.inUse {
			n++
		}
	}
	return n
}
