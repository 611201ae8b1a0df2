// Package diag provides opt-in authoring diagnostics for the Loom runtime.
//
// Diagnostics are purely observational: enabling or disabling a warning
// never alters reconciliation, layout, or scene behavior.
package diag

import (
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// EnvPrefix is the environment variable prefix consumed by FromEnv.
const EnvPrefix = "LOOM"

// Options toggles individual warning categories.
type Options struct {
	// WarnMissingKeys warns when a dynamically reordered child list has
	// unkeyed children (LOOM_WARN_MISSING_KEYS).
	WarnMissingKeys bool `envconfig:"WARN_MISSING_KEYS" default:"true"`

	// WarnUnnecessaryRemounts warns when an unkeyed reorder forces a
	// destroy and recreate of an otherwise-equivalent subtree
	// (LOOM_WARN_UNNECESSARY_REMOUNTS).
	WarnUnnecessaryRemounts bool `envconfig:"WARN_UNNECESSARY_REMOUNTS" default:"true"`
}

// FromEnv loads diagnostic toggles from LOOM_-prefixed environment
// variables, falling back to the defaults above.
func FromEnv() (Options, error) {
	var opts Options
	if err := envconfig.Process(EnvPrefix, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Reporter emits warnings through a zap logger according to Options.
// The zero Reporter is valid and silent.
type Reporter struct {
	opts Options
	log  *zap.Logger
}

// NewReporter creates a reporter. A nil logger silences all warnings.
func NewReporter(opts Options, log *zap.Logger) *Reporter {
	return &Reporter{opts: opts, log: log}
}

// MissingKeys warns that a reordered child list contains unkeyed children.
func (r *Reporter) MissingKeys(component string, childCount int) {
	if r == nil || r.log == nil || !r.opts.WarnMissingKeys {
		return
	}
	r.log.Warn("dynamically ordered children without keys",
		zap.String("component", component),
		zap.Int("children", childCount),
	)
}

// UnnecessaryRemount warns that an unkeyed reorder destroyed a subtree
// that a key would have preserved.
func (r *Reporter) UnnecessaryRemount(component string, position int) {
	if r == nil || r.log == nil || !r.opts.WarnUnnecessaryRemounts {
		return
	}
	r.log.Warn("unnecessary remount: unkeyed reorder destroyed an equivalent subtree",
		zap.String("component", component),
		zap.Int("position", position),
	)
}
