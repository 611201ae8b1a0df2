package scene

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-loom/loom/pkg/geometry"
)

// face is the metrics source for intrinsic text sizing. The host draws
// text with its own fonts; only the layout footprint comes from here.
var face = basicfont.Face7x13

// MeasureText returns the intrinsic size of a text primitive at the given
// font size, wrapped naively to maxWidth. Pixel rendering belongs to the
// host; this only feeds the layout engine's auto sizing.
func MeasureText(text string, fontSize, maxWidth float64) geometry.Size {
	if text == "" {
		return geometry.Size{}
	}
	scale := 1.0
	if fontSize > 0 {
		scale = fontSize / float64(face.Height)
	}
	width := float64(font.MeasureString(face, text).Ceil()) * scale
	lineHeight := float64(face.Height) * scale

	if maxWidth <= 0 || math.IsInf(maxWidth, 1) || maxWidth >= math.MaxFloat64 || width <= maxWidth {
		return geometry.Size{Width: width, Height: lineHeight}
	}
	lines := math.Ceil(width / maxWidth)
	return geometry.Size{Width: maxWidth, Height: lineHeight * lines}
}
