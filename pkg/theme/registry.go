package theme

import "sync"

// Registry holds the process-wide default theme.
//
// The contract is initialize-once, read-many: the registry is constructed
// at startup (optionally from a YAML token file), passed by reference into
// the render entry point, and only read from then on. Snapshot returns the
// theme in effect; the returned Theme is immutable for the duration of the
// render pass that took it.
type Registry struct {
	mu      sync.RWMutex
	current Theme
	sealed  bool
}

// NewRegistry creates a registry initialized with the given theme.
func NewRegistry(t Theme) *Registry {
	return &Registry{current: t}
}

// NewDefaultRegistry creates a registry with the built-in token set.
func NewDefaultRegistry() *Registry {
	return NewRegistry(Default())
}

// Snapshot returns the current theme. The first read seals the registry;
// later Initialize calls are rejected.
func (r *Registry) Snapshot() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	return r.current
}

// Initialize replaces the default theme. It may only be called before the
// first Snapshot; afterwards it reports false and leaves the theme alone.
func (r *Registry) Initialize(t Theme) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false
	}
	r.current = t
	return true
}
