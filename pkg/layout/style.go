// Package layout computes box-model flex layout for committed node trees.
//
// The engine is two-pass: a bottom-up measure pass computes intrinsic
// sizes ignoring growth, then a top-down arrange pass distributes
// available space along the main axis and assigns every item one final
// box relative to the mount root.
package layout

import (
	"fmt"

	"github.com/go-loom/loom/pkg/geometry"
)

// dimKind tags the sizing mode of a Dim.
type dimKind int

const (
	dimAuto dimKind = iota
	dimFixed
	dimPercent
	dimFill
)

// Dim is a closed sizing variant: fixed pixels, a percentage of the
// parent's resolved dimension, fill (claim remaining main-axis space), or
// auto (intrinsic content size). The zero value is auto.
type Dim struct {
	kind  dimKind
	value float64
}

// Px returns a fixed pixel dimension.
func Px(v float64) Dim { return Dim{kind: dimFixed, value: v} }

// Pct returns a percentage dimension (0-100) of the parent's resolved size.
func Pct(v float64) Dim { return Dim{kind: dimPercent, value: v} }

// Fill returns a dimension claiming a share of remaining main-axis space.
func Fill() Dim { return Dim{kind: dimFill} }

// Auto returns an intrinsic content-sized dimension.
func Auto() Dim { return Dim{} }

// IsAuto reports whether the dimension sizes to content.
func (d Dim) IsAuto() bool { return d.kind == dimAuto }

// IsFill reports whether the dimension claims remaining space.
func (d Dim) IsFill() bool { return d.kind == dimFill }

// IsPercent reports whether the dimension is parent-relative.
func (d Dim) IsPercent() bool { return d.kind == dimPercent }

// IsFixed reports whether the dimension is a fixed pixel value.
func (d Dim) IsFixed() bool { return d.kind == dimFixed }

// Value returns the raw pixel or percent value.
func (d Dim) Value() float64 { return d.value }

// String returns a human-readable representation of the dimension.
func (d Dim) String() string {
	switch d.kind {
	case dimFixed:
		return fmt.Sprintf("%gpx", d.value)
	case dimPercent:
		return fmt.Sprintf("%g%%", d.value)
	case dimFill:
		return "fill"
	default:
		return "auto"
	}
}

// Direction selects the flow axis of a container.
type Direction int

const (
	// Row flows children horizontally; the main axis is X.
	Row Direction = iota
	// Column flows children vertically; the main axis is Y.
	Column
	// Stack overlaps children at the container origin. There is no
	// flow-based sizing; each child positions itself via explicit offsets.
	Stack
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case Row:
		return "row"
	case Column:
		return "column"
	case Stack:
		return "stack"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Justify controls main-axis distribution of leftover space.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	// JustifySpaceBetween distributes free space evenly between children,
	// with none before the first or after the last.
	JustifySpaceBetween
	// JustifySpaceAround distributes free space with half-sized spaces at
	// the start and end.
	JustifySpaceAround
	// JustifySpaceEvenly distributes free space evenly, including before
	// the first and after the last child.
	JustifySpaceEvenly
)

// String returns a human-readable representation of the justification.
func (j Justify) String() string {
	switch j {
	case JustifyStart:
		return "start"
	case JustifyEnd:
		return "end"
	case JustifyCenter:
		return "center"
	case JustifySpaceBetween:
		return "space_between"
	case JustifySpaceAround:
		return "space_around"
	case JustifySpaceEvenly:
		return "space_evenly"
	default:
		return fmt.Sprintf("Justify(%d)", int(j))
	}
}

// Align controls cross-axis placement of children within their line.
type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	// AlignStretch grows auto-sized children to the full cross extent.
	AlignStretch
)

// String returns a human-readable representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	case AlignCenter:
		return "center"
	case AlignStretch:
		return "stretch"
	default:
		return fmt.Sprintf("Align(%d)", int(a))
	}
}

// EdgeInsets describes padding or border extents on each side of a box.
type EdgeInsets struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// UniformInsets returns equal insets on all sides.
func UniformInsets(v float64) EdgeInsets {
	return EdgeInsets{Left: v, Top: v, Right: v, Bottom: v}
}

// Horizontal returns the combined left and right insets.
func (e EdgeInsets) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the combined top and bottom insets.
func (e EdgeInsets) Vertical() float64 { return e.Top + e.Bottom }

// Add returns the side-wise sum of two insets.
func (e EdgeInsets) Add(o EdgeInsets) EdgeInsets {
	return EdgeInsets{
		Left:   e.Left + o.Left,
		Top:    e.Top + o.Top,
		Right:  e.Right + o.Right,
		Bottom: e.Bottom + o.Bottom,
	}
}

// MeasureFunc reports the intrinsic content size of a leaf item given the
// maximum width it may occupy. Text and image primitives install one.
type MeasureFunc func(maxWidth float64) geometry.Size

// Style carries the layout-relevant subset of a node's props.
type Style struct {
	Width   Dim
	Height  Dim
	Flow    Direction
	Gap     float64
	Padding EdgeInsets
	// Border sits between the box edge and the padding; both inset the
	// content box and both count toward auto sizing.
	Border  EdgeInsets
	Justify Justify
	Align   Align
	Wrap    bool

	// Basis is an explicit starting main-axis size for fill items.
	// Zero means growth is shared equally among fill siblings.
	Basis float64

	// OffsetX and OffsetY position the item inside a stack container.
	OffsetX float64
	OffsetY float64

	// Detached excludes the item from layout entirely (visibility "none"):
	// it contributes zero size and its siblings reflow.
	Detached bool

	// Measure supplies the intrinsic size of leaf content.
	Measure MeasureFunc
}

// insets returns the combined border and padding extents.
func (s Style) insets() EdgeInsets { return s.Border.Add(s.Padding) }

// Item is one node in the layout tree. The engine writes the final Box;
// everything else is input.
type Item struct {
	Style    Style
	Children []*Item

	// Box is the resolved position and size relative to the mount root,
	// valid only after a completed Compute pass.
	Box geometry.Rect

	intrinsic geometry.Size
}
