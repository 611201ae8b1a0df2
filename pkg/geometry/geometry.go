// Package geometry provides the 2D primitives shared by layout and scene code.
package geometry

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Size represents width and height dimensions in pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents a rectangle positioned at an origin with a size.
// Layout boxes are Rects relative to the mount root.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectFromOriginSize constructs a Rect from an origin offset and a size.
func RectFromOriginSize(origin Offset, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Offset {
	return Offset{X: r.X, Y: r.Y}
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Translate returns the rectangle shifted by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Offset) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.Width && p.Y < r.Y+r.Height
}

// ApproxEqual reports whether two rectangles match within epsilon.
func (r Rect) ApproxEqual(other Rect) bool {
	return floatEqual(r.X, other.X) &&
		floatEqual(r.Y, other.Y) &&
		floatEqual(r.Width, other.Width) &&
		floatEqual(r.Height, other.Height)
}

// floatEqual returns true if two float64 values are approximately equal.
func floatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
