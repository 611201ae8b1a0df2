// Package scene adapts committed node trees onto host scene objects.
//
// The host runtime (a game engine) owns a retained-mode scene graph. This
// package translates primitive node kinds into host objects through the
// [Backend] interface, and applies only the property deltas that changed
// between commits. No pooling happens here: every create and destroy is a
// real host-side allocation or free, so authors use stable keys to avoid
// churn.
package scene

import (
	"fmt"

	"github.com/go-loom/loom/pkg/geometry"
	"github.com/google/uuid"
)

// ObjectKind identifies the host object class backing a primitive node.
type ObjectKind int

const (
	// KindGroup is a container box: a positioned, colorable rectangle
	// that parents other objects.
	KindGroup ObjectKind = iota
	// KindText is a text label.
	KindText
	// KindImage is a textured quad referencing a host-loaded asset.
	KindImage
	// KindSurface is a raw-draw surface the author paints imperatively.
	KindSurface
)

// String returns a human-readable representation of the object kind.
func (k ObjectKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindSurface:
		return "surface"
	default:
		return fmt.Sprintf("ObjectKind(%d)", int(k))
	}
}

// Object is one host-owned scene object. Implementations belong to the
// host; the adapter only ever calls Apply and Destroy.
type Object interface {
	// Apply applies a property delta to the object.
	Apply(patch Patch)
	// Destroy frees the object and any host-owned children it created.
	Destroy()
}

// Backend creates host scene objects. Create may fail (out of GPU memory,
// invalid asset); the failure aborts only the mount of the requesting node.
type Backend interface {
	Create(kind ObjectKind) (Object, error)
}

// ObjectProps is the full recognized property set of a scene object.
// Fields irrelevant to a kind are ignored by the host.
type ObjectProps struct {
	// Frame is the object's box relative to the mount root.
	Frame geometry.Rect
	// Hidden suppresses drawing while keeping the object alive.
	Hidden bool
	// Color is the fill or text color as 0xAARRGGBB.
	Color uint32
	// BorderWidth is the stroke width drawn inside the frame edge.
	BorderWidth float64
	// BorderColor is the stroke color as 0xAARRGGBB.
	BorderColor uint32
	// Text is the label content (KindText).
	Text string
	// FontSize is the label size in pixels (KindText).
	FontSize float64
	// Source names the host asset backing the object (KindImage).
	Source string
}

// Patch is a property delta: nil fields are unchanged.
type Patch struct {
	Frame       *geometry.Rect
	Hidden      *bool
	Color       *uint32
	BorderWidth *float64
	BorderColor *uint32
	Text        *string
	FontSize    *float64
	Source      *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Frame == nil && p.Hidden == nil && p.Color == nil &&
		p.BorderWidth == nil && p.BorderColor == nil &&
		p.Text == nil && p.FontSize == nil && p.Source == nil
}

// Diff returns the patch transforming prev into next.
func Diff(prev, next ObjectProps) Patch {
	var patch Patch
	if prev.Frame != next.Frame {
		f := next.Frame
		patch.Frame = &f
	}
	if prev.Hidden != next.Hidden {
		h := next.Hidden
		patch.Hidden = &h
	}
	if prev.Color != next.Color {
		c := next.Color
		patch.Color = &c
	}
	if prev.BorderWidth != next.BorderWidth {
		w := next.BorderWidth
		patch.BorderWidth = &w
	}
	if prev.BorderColor != next.BorderColor {
		c := next.BorderColor
		patch.BorderColor = &c
	}
	if prev.Text != next.Text {
		t := next.Text
		patch.Text = &t
	}
	if prev.FontSize != next.FontSize {
		s := next.FontSize
		patch.FontSize = &s
	}
	if prev.Source != next.Source {
		s := next.Source
		patch.Source = &s
	}
	return patch
}

// FullPatch returns a patch carrying every property, used on mount.
func FullPatch(props ObjectProps) Patch {
	return Patch{
		Frame:       &props.Frame,
		Hidden:      &props.Hidden,
		Color:       &props.Color,
		BorderWidth: &props.BorderWidth,
		BorderColor: &props.BorderColor,
		Text:        &props.Text,
		FontSize:    &props.FontSize,
		Source:      &props.Source,
	}
}

// Handle references one live host object. Handles are owned by the
// Adapter; instances in the reconciler reference them without owning.
type Handle struct {
	// ID correlates the object in logs and diagnostics dumps.
	ID   uuid.UUID
	Kind ObjectKind

	obj  Object
	last ObjectProps
}

// Object exposes the underlying host object for imperative access, e.g.
// triggering a host-native tween through a ref.
func (h *Handle) Object() Object {
	return h.obj
}
