// Package errors provides structured error handling for the Loom runtime.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAuthoring indicates a component contract violation (hook order,
	// ambiguous unkeyed diff). Authoring errors are surfaced, never patched.
	KindAuthoring
	// KindRender indicates a failure inside a component render function.
	KindRender
	// KindLayout indicates a layout resolution problem.
	KindLayout
	// KindResource indicates a host scene-object allocation failure.
	KindResource
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthoring:
		return "authoring"
	case KindRender:
		return "render"
	case KindLayout:
		return "layout"
	case KindResource:
		return "resource"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// AuthoringError reports a violation of the component authoring contract,
// such as calling hooks in a different order between two renders of the
// same instance. It is never auto-corrected.
type AuthoringError struct {
	// Component is the display name of the offending component.
	Component string
	// Slot is the hook slot index where the violation was detected.
	Slot int
	// Want and Got describe the expected and observed slot kinds. Want is
	// "none" when the render called more hooks than the previous one.
	Want string
	Got  string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AuthoringError) Error() string {
	return fmt.Sprintf("authoring error in %s: hook slot %d expected %s, got %s",
		e.Component, e.Slot, e.Want, e.Got)
}

// RenderError reports a panic or error raised while rendering a component
// subtree. The subtree's previously committed form survives; the error
// propagates to the caller of the enclosing mount or frame call.
type RenderError struct {
	// Component is the display name of the component whose render failed.
	Component string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic rendering %s: %v", e.Component, e.Recovered)
	}
	return fmt.Sprintf("error rendering %s: %v", e.Component, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// LayoutError reports a layout resolution problem, such as a percentage
// dimension against a parent whose own dimension is auto. Layout errors
// resolve to a defined fallback and never fail a render.
type LayoutError struct {
	// Dimension is "width" or "height".
	Dimension string
	// Percent is the requested percentage.
	Percent float64
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout: %.0f%% %s resolved against auto-sized parent, falling back to 0",
		e.Percent, e.Dimension)
}

// ResourceError reports a host scene-object creation failure. It aborts
// only the mount of the node that requested the object.
type ResourceError struct {
	// Kind is the scene object kind that failed to allocate.
	Kind string
	// Err is the error returned by the host backend.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource: creating %s scene object: %v", e.Kind, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Handler receives errors reported through the runtime's diagnostic
// channel. The handler is configured on core.Options at construction;
// there is no mutable package-level registry.
type Handler interface {
	// HandleAuthoring is called for authoring contract violations.
	HandleAuthoring(err *AuthoringError)
	// HandleLayout is called for layout resolution warnings.
	HandleLayout(err *LayoutError)
	// HandleRender is called when a component render fails, after the
	// subtree's pending mutations have been discarded.
	HandleRender(err *RenderError)
	// HandleResource is called when a host scene-object allocation fails.
	HandleResource(err *ResourceError)
}
