// Package theme provides the style-token store consulted during rendering.
//
// A Theme is an immutable set of named tokens (colors, sizes, font metrics).
// The runtime reads one Snapshot per render pass from a Registry and hands
// it down the tree; a subtree can layer overrides on top via Merge without
// mutating the snapshot it received.
package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// Tokens maps token names to raw string values. Color tokens use
// "#RRGGBB" or "#AARRGGBB" notation; numeric tokens are plain decimals.
type Tokens map[string]string

// Theme is an immutable resolved token set for one render pass.
// Construct with New or Registry.Snapshot; never mutate the map after.
type Theme struct {
	tokens Tokens
}

// New creates a theme from a token set. The map is copied.
func New(tokens Tokens) Theme {
	copied := make(Tokens, len(tokens))
	for k, v := range tokens {
		copied[k] = v
	}
	return Theme{tokens: copied}
}

// Default returns the built-in token set used when no theme file is loaded.
func Default() Theme {
	return New(Tokens{
		"color.background": "#1e1e2e",
		"color.surface":    "#313244",
		"color.text":       "#cdd6f4",
		"color.accent":     "#89b4fa",
		"color.border":     "#6c7086",
		"spacing.small":    "4",
		"spacing.medium":   "8",
		"spacing.large":    "16",
		"font.size":        "14",
	})
}

// Merge returns a new theme with the overrides layered on top of t.
// The receiver is unchanged; per-subtree overrides hand the merged theme
// to descendants only.
func (t Theme) Merge(overrides Tokens) Theme {
	if len(overrides) == 0 {
		return t
	}
	merged := make(Tokens, len(t.tokens)+len(overrides))
	for k, v := range t.tokens {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return Theme{tokens: merged}
}

// Lookup returns the raw token value and whether it exists.
func (t Theme) Lookup(name string) (string, bool) {
	v, ok := t.tokens[name]
	return v, ok
}

// Color resolves a color token to 0xAARRGGBB. Unknown or malformed
// tokens resolve to opaque black.
func (t Theme) Color(name string) uint32 {
	raw, ok := t.tokens[name]
	if !ok {
		return 0xff000000
	}
	c, err := ParseColor(raw)
	if err != nil {
		return 0xff000000
	}
	return c
}

// Float resolves a numeric token. Unknown or malformed tokens resolve
// to zero.
func (t Theme) Float(name string) float64 {
	raw, ok := t.tokens[name]
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// Len returns the number of tokens in the theme.
func (t Theme) Len() int {
	return len(t.tokens)
}

// ParseColor parses "#RRGGBB" or "#AARRGGBB" into 0xAARRGGBB.
func ParseColor(raw string) (uint32, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("theme: invalid color %q: %w", raw, err)
		}
		return 0xff000000 | uint32(v), nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("theme: invalid color %q: %w", raw, err)
		}
		return uint32(v), nil
	default:
		return 0, fmt.Errorf("theme: invalid color %q: want #RRGGBB or #AARRGGBB", raw)
	}
}
