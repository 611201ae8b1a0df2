package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a flat YAML mapping of token names to values and layers
// it over the built-in defaults, so a theme file only needs to name the
// tokens it changes.
//
//	color.background: "#101018"
//	spacing.medium: 10
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML token data layered over the defaults.
func Parse(data []byte) (Theme, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Theme{}, fmt.Errorf("theme: parsing tokens: %w", err)
	}
	overrides := make(Tokens, len(raw))
	for k, v := range raw {
		overrides[k] = fmt.Sprintf("%v", v)
	}
	return Default().Merge(overrides), nil
}
