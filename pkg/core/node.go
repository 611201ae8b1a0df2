package core

import (
	"reflect"
	"runtime"

	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// Kind identifies what a Node describes: a primitive scene element or a
// component function.
type Kind int

const (
	// KindBox is a container primitive laying out children.
	KindBox Kind = iota
	// KindText is a text label primitive.
	KindText
	// KindImage is an image primitive referencing a host asset.
	KindImage
	// KindSurface is a raw-draw primitive painted imperatively by the host.
	KindSurface
	// KindComponent is a component function invocation.
	KindComponent
)

// String returns a human-readable representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindSurface:
		return "surface"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Visibility is the three-way visibility policy of a primitive.
type Visibility int

const (
	// VisibilityVisible draws the element normally.
	VisibilityVisible Visibility = iota
	// VisibilityHidden keeps the element mounted and in layout (same
	// footprint) but draws no pixels.
	VisibilityHidden
	// VisibilityNone keeps the element mounted but removes it from
	// layout entirely; siblings reflow to reclaim its space.
	VisibilityNone
)

// String returns a human-readable representation of the visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityVisible:
		return "visible"
	case VisibilityHidden:
		return "hidden"
	case VisibilityNone:
		return "none"
	default:
		return "unknown"
	}
}

// ComponentFunc is the authoring contract: a pure description of a
// subtree given the build context. Every render of one instance must call
// the same hooks in the same order.
type ComponentFunc func(ctx *BuildContext) Node

// Props is the closed set of primitive prop variants. Each primitive kind
// has a fixed recognized field set; unknown props are impossible by
// construction.
type Props interface {
	isProps()
}

// ObjectRef receives the primitive's live scene handle after commit, for
// imperative host access such as triggering a host-native tween. Bind
// one with UseRef.
type ObjectRef = Ref[*scene.Handle]

// BoxProps configure a container primitive.
type BoxProps struct {
	Width   layout.Dim
	Height  layout.Dim
	Flow    layout.Direction
	Gap     float64
	Padding layout.EdgeInsets
	Justify layout.Justify
	Align   layout.Align
	Wrap    bool
	Basis   float64

	// OffsetX and OffsetY position the box inside a stack parent.
	OffsetX float64
	OffsetY float64

	Visible Visibility

	// Color is a "#RRGGBB"/"#AARRGGBB" literal or a theme token name.
	// Empty means transparent.
	Color string

	// Border is a uniform stroke width. It sits between the box edge
	// and the padding, insetting the content box like padding does.
	Border float64
	// BorderColor is a color literal or theme token name; empty resolves
	// the "color.border" token when Border is set.
	BorderColor string

	// Theme overrides style tokens for this subtree.
	Theme theme.Tokens

	Ref *ObjectRef
}

func (BoxProps) isProps() {}

// TextProps configure a text primitive.
type TextProps struct {
	Content  string
	FontSize float64
	// Color is a color literal or theme token name; empty resolves the
	// "color.text" token.
	Color string

	Width   layout.Dim
	Height  layout.Dim
	OffsetX float64
	OffsetY float64
	Visible Visibility

	Ref *ObjectRef
}

func (TextProps) isProps() {}

// ImageProps configure an image primitive. The host resolves Source.
type ImageProps struct {
	Source string

	Width   layout.Dim
	Height  layout.Dim
	OffsetX float64
	OffsetY float64
	Visible Visibility

	Ref *ObjectRef
}

func (ImageProps) isProps() {}

// SurfaceProps configure a raw-draw primitive. Drawing is imperative:
// authors reach the host object through a ref and the scene handle.
type SurfaceProps struct {
	Width   layout.Dim
	Height  layout.Dim
	OffsetX float64
	OffsetY float64
	Visible Visibility

	Ref *ObjectRef
}

func (SurfaceProps) isProps() {}

// Node is the declarative description of one element and its children.
// Nodes are produced fresh every render and immutable once produced.
type Node struct {
	Kind     Kind
	Props    Props
	Children []Node
	Key      string

	// Component fields, set for KindComponent only.
	Component      ComponentFunc
	ComponentProps any

	// name is the component's display name for diagnostics.
	name string
	// fn is the component identity used by reconciliation.
	fn uintptr
}

// Box creates a container node.
func Box(props BoxProps, children ...Node) Node {
	return Node{Kind: KindBox, Props: props, Children: children}
}

// Text creates a text node.
func Text(props TextProps) Node {
	return Node{Kind: KindText, Props: props}
}

// Image creates an image node.
func Image(props ImageProps) Node {
	return Node{Kind: KindImage, Props: props}
}

// Surface creates a raw-draw surface node.
func Surface(props SurfaceProps) Node {
	return Node{Kind: KindSurface, Props: props}
}

// Component creates a component invocation node. Component props are
// opaque to the runtime and compared shallowly between renders.
func Component(fn ComponentFunc, props any, children ...Node) Node {
	ptr := reflect.ValueOf(fn).Pointer()
	name := "anonymous"
	if f := runtime.FuncForPC(ptr); f != nil {
		name = f.Name()
	}
	return Node{
		Kind:           KindComponent,
		Component:      fn,
		ComponentProps: props,
		Children:       children,
		name:           name,
		fn:             ptr,
	}
}

// WithKey returns a copy of the node carrying an identity key. Keyed
// siblings are matched by key across renders, so reordering moves their
// instances instead of destroying them.
func (n Node) WithKey(key string) Node {
	n.Key = key
	return n
}

// DisplayName returns the component function name, or the primitive kind.
func (n Node) DisplayName() string {
	if n.Kind == KindComponent {
		return n.name
	}
	return n.Kind.String()
}

// sameIdentity reports whether two nodes share an identity: equal kind,
// equal component function for components, and equal key.
func sameIdentity(a, b Node) bool {
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	if a.Kind == KindComponent {
		return a.fn == b.fn
	}
	return true
}

// refOf extracts the object ref from any primitive prop variant.
func refOf(p Props) *ObjectRef {
	switch props := p.(type) {
	case BoxProps:
		return props.Ref
	case TextProps:
		return props.Ref
	case ImageProps:
		return props.Ref
	case SurfaceProps:
		return props.Ref
	default:
		return nil
	}
}

// visibilityOf extracts the visibility from any primitive prop variant.
func visibilityOf(p Props) Visibility {
	switch props := p.(type) {
	case BoxProps:
		return props.Visible
	case TextProps:
		return props.Visible
	case ImageProps:
		return props.Visible
	case SurfaceProps:
		return props.Visible
	default:
		return VisibilityVisible
	}
}
