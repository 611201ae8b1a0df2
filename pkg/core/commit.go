package core

import (
	stderrors "errors"
	"strings"
	"time"

	loomerrors "github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/geometry"
	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// commit runs the back half of the frame pipeline on the committed tree:
// layout, one batched scene flush, then due effects.
func (rt *Runtime) commit() error {
	rt.computeLayout()
	rt.commitScene(rt.root, false)
	rt.adapter.Flush()
	return rt.runEffects()
}

// computeLayout rebuilds the layout tree from the committed instances
// and writes resolved boxes back. Component instances are transparent to
// layout; they adopt their rendered child's box.
func (rt *Runtime) computeLayout() {
	items := rt.buildItems(rt.root)
	if len(items) == 0 {
		return
	}
	root := items[0]
	rt.engine.Compute(root, rt.viewport)
	rt.readBoxes(rt.root)
}

// buildItems returns the layout items an instance contributes: one for a
// primitive, the child's items for a component.
func (rt *Runtime) buildItems(id instanceID) []*layout.Item {
	inst := rt.arena.get(id)
	if inst == nil {
		return nil
	}
	if inst.node.Kind == KindComponent {
		inst.item = nil
		var items []*layout.Item
		for _, cid := range inst.children {
			items = append(items, rt.buildItems(cid)...)
		}
		return items
	}
	it := &layout.Item{Style: rt.styleFor(inst)}
	for _, cid := range inst.children {
		it.Children = append(it.Children, rt.buildItems(cid)...)
	}
	inst.item = it
	return []*layout.Item{it}
}

// readBoxes copies resolved frames back onto instances. A component's
// box is its child subtree's box.
func (rt *Runtime) readBoxes(id instanceID) {
	inst := rt.arena.get(id)
	if inst == nil {
		return
	}
	if inst.item != nil {
		inst.box = inst.item.Box
	}
	for _, cid := range inst.children {
		rt.readBoxes(cid)
	}
	if inst.node.Kind == KindComponent && len(inst.children) == 1 {
		if child := rt.arena.get(inst.children[0]); child != nil {
			inst.box = child.box
		}
	}
}

// styleFor converts a primitive's props into the layout style, wiring
// the text measurer for intrinsic sizing.
func (rt *Runtime) styleFor(inst *instance) layout.Style {
	switch props := inst.node.Props.(type) {
	case BoxProps:
		return layout.Style{
			Width:    props.Width,
			Height:   props.Height,
			Flow:     props.Flow,
			Gap:      props.Gap,
			Padding:  props.Padding,
			Border:   layout.UniformInsets(props.Border),
			Justify:  props.Justify,
			Align:    props.Align,
			Wrap:     props.Wrap,
			Basis:    props.Basis,
			OffsetX:  props.OffsetX,
			OffsetY:  props.OffsetY,
			Detached: props.Visible == VisibilityNone,
		}
	case TextProps:
		content := props.Content
		size := rt.fontSize(inst.theme, props.FontSize)
		return layout.Style{
			Width:    props.Width,
			Height:   props.Height,
			OffsetX:  props.OffsetX,
			OffsetY:  props.OffsetY,
			Detached: props.Visible == VisibilityNone,
			Measure: func(maxWidth float64) geometry.Size {
				return scene.MeasureText(content, size, maxWidth)
			},
		}
	case ImageProps:
		return layout.Style{
			Width:    props.Width,
			Height:   props.Height,
			OffsetX:  props.OffsetX,
			OffsetY:  props.OffsetY,
			Detached: props.Visible == VisibilityNone,
		}
	case SurfaceProps:
		return layout.Style{
			Width:    props.Width,
			Height:   props.Height,
			OffsetX:  props.OffsetX,
			OffsetY:  props.OffsetY,
			Detached: props.Visible == VisibilityNone,
		}
	default:
		return layout.Style{}
	}
}

// commitScene stages delta patches for every primitive. Hidden ancestors
// hide their whole subtree; "none" visibility both hides and detaches.
func (rt *Runtime) commitScene(id instanceID, hiddenAncestor bool) {
	inst := rt.arena.get(id)
	if inst == nil {
		return
	}
	hidden := hiddenAncestor
	if inst.node.Kind != KindComponent {
		if visibilityOf(inst.node.Props) != VisibilityVisible {
			hidden = true
		}
		rt.adapter.Update(inst.handle, rt.scenePropsFor(inst, hidden))
		if ref := refOf(inst.node.Props); ref != nil {
			ref.Current = inst.handle
		}
	}
	for _, cid := range inst.children {
		rt.commitScene(cid, hidden)
	}
}

// scenePropsFor resolves a primitive's full host property set, theme
// tokens included.
func (rt *Runtime) scenePropsFor(inst *instance, hidden bool) scene.ObjectProps {
	p := scene.ObjectProps{Frame: inst.box, Hidden: hidden}
	switch props := inst.node.Props.(type) {
	case BoxProps:
		if props.Color != "" {
			p.Color = resolveColor(inst.theme, props.Color)
		}
		if props.Border > 0 {
			p.BorderWidth = props.Border
			name := props.BorderColor
			if name == "" {
				name = "color.border"
			}
			p.BorderColor = resolveColor(inst.theme, name)
		}
	case TextProps:
		p.Text = props.Content
		p.FontSize = rt.fontSize(inst.theme, props.FontSize)
		name := props.Color
		if name == "" {
			name = "color.text"
		}
		p.Color = resolveColor(inst.theme, name)
	case ImageProps:
		p.Source = props.Source
	}
	return p
}

// resolveColor accepts "#RRGGBB"/"#AARRGGBB" literals or theme token
// names.
func resolveColor(th theme.Theme, s string) uint32 {
	if strings.HasPrefix(s, "#") {
		if c, err := theme.ParseColor(s); err == nil {
			return c
		}
	}
	return th.Color(s)
}

// fontSize resolves an explicit size or falls back to the theme token.
func (rt *Runtime) fontSize(th theme.Theme, explicit float64) float64 {
	if explicit > 0 {
		return explicit
	}
	if v := th.Float("font.size"); v > 0 {
		return v
	}
	return 14
}

// runEffects executes the queued effect slots in mount order. Each run
// first invokes the previous run's cleanup. A panicking effect is
// reported and does not stop the rest of the queue.
func (rt *Runtime) runEffects() error {
	queue := rt.pendingEffects
	rt.pendingEffects = nil
	var errs []error
	for _, e := range queue {
		inst := rt.arena.get(e.id)
		if inst == nil || e.slot >= len(inst.slots) {
			continue
		}
		s := &inst.slots[e.slot]
		if err := rt.runEffect(inst, s); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (rt *Runtime) runEffect(inst *instance, s *slot) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		re := &loomerrors.RenderError{
			Component:  inst.node.DisplayName(),
			Recovered:  r,
			StackTrace: loomerrors.CaptureStack(),
			Timestamp:  time.Now(),
		}
		rt.handler.HandleRender(re)
		err = re
	}()
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	s.cleanup = s.effect()
	return nil
}
