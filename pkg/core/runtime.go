// Package core implements the declarative composition runtime: component
// rendering, reconciliation against a persistent instance tree, the
// frame pipeline, and the bridge onto the host scene graph.
package core

import (
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/go-loom/loom/pkg/animation"
	"github.com/go-loom/loom/pkg/diag"
	loomerrors "github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/geometry"
	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// Options configure a Runtime. Everything ambient is explicit here:
// there are no package-level registries to mutate.
type Options struct {
	// Theme supplies the style tokens. Nil uses the built-in defaults.
	// The registry is sealed on first read.
	Theme *theme.Registry
	// Diagnostics toggles non-fatal authoring warnings. Nil enables
	// all of them.
	Diagnostics *diag.Options
	// Errors receives structured runtime errors. Nil installs a
	// zap-backed handler.
	Errors loomerrors.Handler
	// Logger backs the diagnostics reporter and the default error
	// handler. Nil means a no-op logger.
	Logger *zap.Logger
	// Viewport is the root layout size in host pixels.
	Viewport geometry.Size
}

// Runtime owns one mounted composition: the instance arena, the spring
// scheduler, the layout engine and the scene adapter. A Runtime is not
// safe for concurrent use; drive it from the host's frame thread.
type Runtime struct {
	adapter   *scene.Adapter
	scheduler *animation.Scheduler
	engine    layout.Engine
	arena     arena

	handler  loomerrors.Handler
	reporter *diag.Reporter
	theme    theme.Theme
	viewport geometry.Size

	root           instanceID
	dirty          map[instanceID]bool
	pendingEffects []effectRun
}

// NewRuntime wires a runtime onto a host scene backend.
func NewRuntime(backend scene.Backend, opts Options) *Runtime {
	reg := opts.Theme
	if reg == nil {
		reg = theme.NewDefaultRegistry()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	handler := opts.Errors
	if handler == nil {
		handler = loomerrors.NewZapHandler(log)
	}
	diagOpts := diag.Options{WarnMissingKeys: true, WarnUnnecessaryRemounts: true}
	if opts.Diagnostics != nil {
		diagOpts = *opts.Diagnostics
	}

	rt := &Runtime{
		adapter:   scene.NewAdapter(backend),
		scheduler: animation.NewScheduler(),
		handler:   handler,
		reporter:  diag.NewReporter(diagOpts, log),
		theme:     reg.Snapshot(),
		viewport:  opts.Viewport,
		root:      nilInstance,
		dirty:     make(map[instanceID]bool),
	}
	rt.engine.Warn = handler.HandleLayout
	return rt
}

// MountHandle refers to a mounted root and tears it down on Unmount.
type MountHandle struct {
	rt *Runtime
	id instanceID
}

// Unmount destroys the mounted tree: effect cleanups in reverse mount
// order, then every host object. Safe to call twice.
func (h *MountHandle) Unmount() {
	if h.rt.arena.get(h.id) == nil {
		return
	}
	h.rt.unmount(h.id)
	h.rt.root = nilInstance
}

// Mount attaches a root component to the host container and commits the
// first frame: render, layout, scene batch, then mount effects. The
// returned error carries any subtree failures; the handle is valid
// whenever the root itself mounted.
func (rt *Runtime) Mount(root ComponentFunc, props any) (*MountHandle, error) {
	if rt.root != nilInstance {
		return nil, fmt.Errorf("core: runtime already has a mounted root")
	}
	node := Component(root, props)
	id, err := rt.mountNode(nilInstance, node, rt.theme)
	if id == nilInstance {
		return nil, err
	}
	rt.root = id
	cerr := rt.commit()
	return &MountHandle{rt: rt, id: id}, stderrors.Join(err, cerr)
}

// Frame advances the runtime by one host frame: springs step, dirty
// components rebuild in one batch, layout recomputes, the scene delta
// flushes in a single batch, and due effects run. Subtree failures are
// reported to the error handler and joined into the returned error;
// unaffected siblings still commit.
func (rt *Runtime) Frame(dt time.Duration) error {
	rt.scheduler.Step(dt.Seconds())
	err := rt.flushDirty()
	if rt.root == nilInstance {
		return err
	}
	return stderrors.Join(err, rt.commit())
}

// markDirty schedules a component rebuild for the next flush. Marks
// coalesce: any number of updates to one instance produce one rebuild.
func (rt *Runtime) markDirty(id instanceID) {
	rt.dirty[id] = true
}

// maxRebuildPasses bounds cascading rebuilds within one flush. A
// component that schedules an update during its own render would
// otherwise never converge.
const maxRebuildPasses = 64

// flushDirty rebuilds every dirty component exactly once per batch,
// parents before children so a parent re-render subsumes its
// descendants' marks. Updates scheduled during a rebuild join the next
// batch within the same flush.
func (rt *Runtime) flushDirty() error {
	var errs []error
	for pass := 0; len(rt.dirty) > 0; pass++ {
		if pass >= maxRebuildPasses {
			re := &loomerrors.RenderError{
				Component: "runtime",
				Err:       fmt.Errorf("rebuild did not converge after %d passes; state updated during render?", maxRebuildPasses),
				Timestamp: time.Now(),
			}
			rt.handler.HandleRender(re)
			errs = append(errs, re)
			rt.dirty = make(map[instanceID]bool)
			break
		}
		batch := make([]instanceID, 0, len(rt.dirty))
		for id := range rt.dirty {
			batch = append(batch, id)
		}
		sort.Slice(batch, func(i, j int) bool {
			a, b := rt.arena.get(batch[i]), rt.arena.get(batch[j])
			da, db := 0, 0
			if a != nil {
				da = a.depth
			}
			if b != nil {
				db = b.depth
			}
			return da < db
		})
		for _, id := range batch {
			if !rt.dirty[id] {
				continue
			}
			delete(rt.dirty, id)
			if err := rt.rebuild(id); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return stderrors.Join(errs...)
}

// Idle reports whether nothing is pending: no unsettled springs, no
// dirty components, no queued effects.
func (rt *Runtime) Idle() bool {
	return rt.scheduler.ActiveCount() == 0 &&
		len(rt.dirty) == 0 &&
		len(rt.pendingEffects) == 0
}

// LiveInstances counts instances currently mounted.
func (rt *Runtime) LiveInstances() int {
	return rt.arena.live()
}

// LiveObjects counts host scene objects currently alive.
func (rt *Runtime) LiveObjects() int {
	return rt.adapter.Live()
}
