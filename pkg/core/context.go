package core

import (
	"fmt"

	"github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/theme"
)

// BuildContext is passed to a component function for the duration of one
// render. It carries the component's props, the effective theme for its
// position in the tree, and the hook slot cursor. A BuildContext is only
// valid during the render it was created for.
type BuildContext struct {
	rt     *Runtime
	id     instanceID
	gen    uint64
	props  any
	theme  theme.Theme
	cursor int
	active bool
}

// Props returns the props the component was invoked with.
func (ctx *BuildContext) Props() any {
	return ctx.props
}

// Theme returns the effective theme at this point in the tree, including
// any ancestor overrides.
func (ctx *BuildContext) Theme() theme.Theme {
	return ctx.theme
}

// nextSlot claims the next hook slot, validating order and kind. The
// first render appends slots; later renders must replay the same
// sequence, anything else is an authoring error and aborts the render.
func (ctx *BuildContext) nextSlot(kind slotKind) *slot {
	if !ctx.active {
		panic(&errors.AuthoringError{
			Component: ctx.componentName(),
			Slot:      ctx.cursor,
			Want:      "call during render",
			Got:       fmt.Sprintf("%s hook outside render pass", kind),
		})
	}
	inst := ctx.rt.arena.get(ctx.id)
	i := ctx.cursor
	ctx.cursor++
	if inst.firstRender {
		inst.slots = append(inst.slots, slot{kind: kind})
		return &inst.slots[i]
	}
	if i >= len(inst.slots) {
		panic(&errors.AuthoringError{
			Component: ctx.componentName(),
			Slot:      i,
			Want:      fmt.Sprintf("%d hooks", len(inst.slots)),
			Got:       fmt.Sprintf("at least %d", i+1),
		})
	}
	s := &inst.slots[i]
	if s.kind != kind {
		panic(&errors.AuthoringError{
			Component: ctx.componentName(),
			Slot:      i,
			Want:      s.kind.String(),
			Got:       kind.String(),
		})
	}
	return s
}

// finish closes the render pass and validates that every previously
// registered slot was visited again.
func (ctx *BuildContext) finish() {
	ctx.active = false
	inst := ctx.rt.arena.get(ctx.id)
	if !inst.firstRender && ctx.cursor < len(inst.slots) {
		panic(&errors.AuthoringError{
			Component: ctx.componentName(),
			Slot:      ctx.cursor,
			Want:      fmt.Sprintf("%d hooks", len(inst.slots)),
			Got:       fmt.Sprintf("%d", ctx.cursor),
		})
	}
	inst.firstRender = false
}

func (ctx *BuildContext) componentName() string {
	return ctx.rt.arena.get(ctx.id).node.DisplayName()
}
