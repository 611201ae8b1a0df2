package layout

import (
	"math"
	"time"

	"github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/geometry"
)

// Engine runs the two-pass layout algorithm. Warn, when set, receives
// layout resolution problems; layout itself never fails.
type Engine struct {
	Warn func(*errors.LayoutError)
}

// Compute lays out the tree rooted at root inside the viewport and
// assigns every item its final Box relative to the mount root.
func (e *Engine) Compute(root *Item, viewport geometry.Size) {
	if root == nil {
		return
	}
	e.measure(root)

	st := root.Style
	width, wAuto := e.resolveAgainst(st.Width, viewport.Width, false, root.intrinsic.Width, "width")
	height, hAuto := e.resolveAgainst(st.Height, viewport.Height, false, root.intrinsic.Height, "height")
	if st.Width.IsFill() {
		width, wAuto = viewport.Width, false
	}
	if st.Height.IsFill() {
		height, hAuto = viewport.Height, false
	}
	e.arrange(root, geometry.Offset{}, geometry.Size{Width: width, Height: height}, wAuto, hAuto)
}

// measure is the bottom-up pass: intrinsic/minimum sizes ignoring growth.
// Fill and percent items contribute zero; they resolve during arrange.
func (e *Engine) measure(it *Item) {
	if it.Style.Detached {
		it.intrinsic = geometry.Size{}
		return
	}
	for _, child := range it.Children {
		e.measure(child)
	}

	var content geometry.Size
	switch {
	case len(it.Children) == 0 && it.Style.Measure != nil:
		content = it.Style.Measure(math.MaxFloat64)
	case it.Style.Flow == Stack:
		for _, child := range it.Children {
			if child.Style.Detached {
				continue
			}
			content.Width = math.Max(content.Width, child.intrinsic.Width+child.Style.OffsetX)
			content.Height = math.Max(content.Height, child.intrinsic.Height+child.Style.OffsetY)
		}
	default:
		main, cross := 0.0, 0.0
		count := 0
		for _, child := range it.Children {
			if child.Style.Detached {
				continue
			}
			main += e.mainOf(it.Style.Flow, child.intrinsic)
			cross = math.Max(cross, e.crossOf(it.Style.Flow, child.intrinsic))
			count++
		}
		if count > 1 {
			main += it.Style.Gap * float64(count-1)
		}
		content = e.makeSize(it.Style.Flow, main, cross)
	}

	insets := it.Style.insets()
	it.intrinsic = geometry.Size{
		Width:  e.intrinsicDim(it.Style.Width, content.Width+insets.Horizontal()),
		Height: e.intrinsicDim(it.Style.Height, content.Height+insets.Vertical()),
	}
}

// intrinsicDim returns the contribution of one dimension to the parent's
// content size during the measure pass.
func (e *Engine) intrinsicDim(d Dim, content float64) float64 {
	switch {
	case d.IsFixed():
		return d.Value()
	case d.IsPercent(), d.IsFill():
		return 0
	default:
		return content
	}
}

// resolved carries one child's concrete size plus auto-ness flags, which
// descendants need for percentage resolution.
type resolved struct {
	size  geometry.Size
	wAuto bool
	hAuto bool
}

// arrange is the top-down pass. origin and size are final for this item;
// wAuto/hAuto record whether the item's own dimensions were authored auto,
// which makes percentage children resolve against zero.
func (e *Engine) arrange(it *Item, origin geometry.Offset, size geometry.Size, wAuto, hAuto bool) {
	it.Box = geometry.RectFromOriginSize(origin, size)
	if len(it.Children) == 0 {
		return
	}

	insets := it.Style.insets()
	contentOrigin := geometry.Offset{X: origin.X + insets.Left, Y: origin.Y + insets.Top}
	content := geometry.Size{
		Width:  math.Max(0, size.Width-insets.Horizontal()),
		Height: math.Max(0, size.Height-insets.Vertical()),
	}

	if it.Style.Flow == Stack {
		e.arrangeStack(it, contentOrigin, content, wAuto, hAuto)
		return
	}
	e.arrangeFlow(it, contentOrigin, content, wAuto, hAuto)
}

// arrangeStack overlaps children at the content origin; each child
// positions itself via its explicit offsets.
func (e *Engine) arrangeStack(it *Item, origin geometry.Offset, content geometry.Size, wAuto, hAuto bool) {
	for _, child := range it.Children {
		if child.Style.Detached {
			e.park(child, origin)
			continue
		}
		r := e.resolveChild(child, content, wAuto, hAuto)
		childOrigin := geometry.Offset{X: origin.X + child.Style.OffsetX, Y: origin.Y + child.Style.OffsetY}
		e.arrange(child, childOrigin, r.size, r.wAuto, r.hAuto)
	}
}

// arrangeFlow lays out row/column children: gaps come off first, fill
// children share the remaining main-axis space, then justify/align/wrap
// place each line.
func (e *Engine) arrangeFlow(it *Item, origin geometry.Offset, content geometry.Size, wAuto, hAuto bool) {
	flow := it.Style.Flow
	contentMain := e.mainOf(flow, content)
	contentCross := e.crossOf(flow, content)

	type entry struct {
		item *Item
		res  resolved
		fill bool
	}
	entries := make([]entry, 0, len(it.Children))
	for _, child := range it.Children {
		if child.Style.Detached {
			e.park(child, origin)
			continue
		}
		r := e.resolveChild(child, content, wAuto, hAuto)
		entries = append(entries, entry{
			item: child,
			res:  r,
			fill: e.mainDim(flow, child.Style).IsFill(),
		})
	}
	if len(entries) == 0 {
		return
	}

	// Split into lines. Fill children occupy their basis while wrapping.
	var lines [][]entry
	if it.Style.Wrap {
		var line []entry
		used := 0.0
		for _, en := range entries {
			m := e.mainOf(flow, en.res.size)
			if en.fill {
				m = en.item.Style.Basis
			}
			extent := used + m
			if len(line) > 0 {
				extent += it.Style.Gap
			}
			if len(line) > 0 && extent > contentMain {
				lines = append(lines, line)
				line = nil
				used = m
			} else {
				used = extent
			}
			line = append(line, en)
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	} else {
		lines = [][]entry{entries}
	}

	lineCross := 0.0
	crossOffset := 0.0
	for _, line := range lines {
		gaps := it.Style.Gap * float64(len(line)-1)

		// Distribute remaining main-axis space among fill children.
		fixedMain, fillCount, sumBases := 0.0, 0, 0.0
		for _, en := range line {
			if en.fill {
				fillCount++
				sumBases += en.item.Style.Basis
				continue
			}
			fixedMain += e.mainOf(flow, en.res.size)
		}
		if fillCount > 0 {
			share := math.Max(0, contentMain-gaps-fixedMain-sumBases) / float64(fillCount)
			for i := range line {
				if !line[i].fill {
					continue
				}
				main := line[i].item.Style.Basis + share
				line[i].res.size = e.withMain(flow, line[i].res.size, main)
				if flow == Row {
					line[i].res.wAuto = false
				} else {
					line[i].res.hAuto = false
				}
			}
		}

		totalMain := gaps
		lineCross = 0
		for _, en := range line {
			totalMain += e.mainOf(flow, en.res.size)
			lineCross = math.Max(lineCross, e.crossOf(flow, en.res.size))
		}
		if len(lines) == 1 {
			lineCross = math.Max(lineCross, contentCross)
		}

		spacing, startOffset := e.justifySpacing(it.Style.Justify, math.Max(0, contentMain-totalMain), len(line))

		cursor := startOffset
		for i := range line {
			en := &line[i]
			// Stretch auto-sized children to the full line cross extent.
			if it.Style.Align == AlignStretch {
				if flow == Row && en.res.hAuto {
					en.res.size.Height = lineCross
					en.res.hAuto = false
				} else if flow == Column && en.res.wAuto {
					en.res.size.Width = lineCross
					en.res.wAuto = false
				}
			}
			cross := crossOffset + e.alignOffset(it.Style.Align, lineCross, e.crossOf(flow, en.res.size))
			childOrigin := geometry.Offset{
				X: origin.X + e.xOf(flow, cursor, cross),
				Y: origin.Y + e.yOf(flow, cursor, cross),
			}
			e.arrange(en.item, childOrigin, en.res.size, en.res.wAuto, en.res.hAuto)
			cursor += e.mainOf(flow, en.res.size) + it.Style.Gap + spacing
		}

		// The next line starts after this line's max cross extent.
		crossOffset += lineCross
	}
}

// park gives a detached item a zero-size box so its descendants report a
// defined (empty) footprint.
func (e *Engine) park(it *Item, origin geometry.Offset) {
	it.Box = geometry.RectFromOriginSize(origin, geometry.Size{})
	for _, child := range it.Children {
		e.park(child, origin)
	}
}

// resolveChild computes a child's concrete width and height from its
// dims, the parent's content box, and the parent's auto-ness.
func (e *Engine) resolveChild(child *Item, content geometry.Size, parentWAuto, parentHAuto bool) resolved {
	st := child.Style
	w, wAuto := e.resolveAgainst(st.Width, content.Width, parentWAuto, child.intrinsic.Width, "width")
	h, hAuto := e.resolveAgainst(st.Height, content.Height, parentHAuto, child.intrinsic.Height, "height")
	// Fill on a non-main axis (and in stacks) claims the parent's extent.
	if st.Width.IsFill() {
		w, wAuto = content.Width, false
	}
	if st.Height.IsFill() {
		h, hAuto = content.Height, false
	}
	return resolved{size: geometry.Size{Width: w, Height: h}, wAuto: wAuto, hAuto: hAuto}
}

// resolveAgainst resolves one dimension against the parent's resolved
// extent. Percentages against an auto parent fall back to zero and warn.
func (e *Engine) resolveAgainst(d Dim, parent float64, parentAuto bool, intrinsic float64, name string) (float64, bool) {
	switch {
	case d.IsFixed():
		return d.Value(), false
	case d.IsPercent():
		if parentAuto {
			if e.Warn != nil {
				e.Warn(&errors.LayoutError{Dimension: name, Percent: d.Value(), Timestamp: time.Now()})
			}
			return 0, false
		}
		return parent * d.Value() / 100, false
	case d.IsFill():
		// The caller substitutes the fill share; zero is a placeholder.
		return 0, false
	default:
		return intrinsic, true
	}
}

// justifySpacing converts leftover main-axis space into inter-child
// spacing and a start offset.
func (e *Engine) justifySpacing(j Justify, free float64, n int) (spacing, offset float64) {
	switch j {
	case JustifyEnd:
		offset = free
	case JustifyCenter:
		offset = free * 0.5
	case JustifySpaceBetween:
		if n > 1 {
			spacing = free / float64(n-1)
		}
	case JustifySpaceAround:
		if n > 0 {
			spacing = free / float64(n)
			offset = spacing * 0.5
		}
	case JustifySpaceEvenly:
		if n > 0 {
			spacing = free / float64(n+1)
			offset = spacing
		}
	}
	return
}

// alignOffset places a child within its line along the cross axis.
func (e *Engine) alignOffset(a Align, lineCross, childCross float64) float64 {
	free := lineCross - childCross
	if free <= 0 {
		return 0
	}
	switch a {
	case AlignEnd:
		return free
	case AlignCenter:
		return free * 0.5
	default:
		return 0
	}
}

// Axis helpers.

func (e *Engine) mainOf(d Direction, s geometry.Size) float64 {
	if d == Row {
		return s.Width
	}
	return s.Height
}

func (e *Engine) crossOf(d Direction, s geometry.Size) float64 {
	if d == Row {
		return s.Height
	}
	return s.Width
}

func (e *Engine) makeSize(d Direction, main, cross float64) geometry.Size {
	if d == Row {
		return geometry.Size{Width: main, Height: cross}
	}
	return geometry.Size{Width: cross, Height: main}
}

func (e *Engine) withMain(d Direction, s geometry.Size, main float64) geometry.Size {
	if d == Row {
		s.Width = main
	} else {
		s.Height = main
	}
	return s
}

func (e *Engine) mainDim(d Direction, st Style) Dim {
	if d == Row {
		return st.Width
	}
	return st.Height
}

func (e *Engine) xOf(d Direction, main, cross float64) float64 {
	if d == Row {
		return main
	}
	return cross
}

func (e *Engine) yOf(d Direction, main, cross float64) float64 {
	if d == Row {
		return cross
	}
	return main
}
