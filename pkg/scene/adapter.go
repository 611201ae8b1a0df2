package scene

import (
	"time"

	"github.com/go-loom/loom/pkg/errors"
	"github.com/google/uuid"
)

// Adapter owns the live handles for one mounted tree and batches the
// property deltas of a frame into a single application pass.
type Adapter struct {
	backend Backend
	handles map[uuid.UUID]*Handle
	pending []staged
}

type staged struct {
	handle *Handle
	patch  Patch
}

// NewAdapter creates an adapter over the host backend.
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{
		backend: backend,
		handles: make(map[uuid.UUID]*Handle),
	}
}

// Mount allocates a host object for a newly mounted primitive and stages
// its full property set for the frame batch. A create failure surfaces as
// a ResourceError, aborting only this node's mount.
func (a *Adapter) Mount(kind ObjectKind, props ObjectProps) (*Handle, error) {
	obj, err := a.backend.Create(kind)
	if err != nil {
		return nil, &errors.ResourceError{Kind: kind.String(), Err: err, Timestamp: time.Now()}
	}
	h := &Handle{ID: uuid.New(), Kind: kind, obj: obj, last: props}
	a.handles[h.ID] = h
	a.pending = append(a.pending, staged{handle: h, patch: FullPatch(props)})
	return h, nil
}

// Update stages the delta between the handle's last-applied props and the
// new props. Unchanged props stage nothing.
func (a *Adapter) Update(h *Handle, props ObjectProps) {
	if h == nil {
		return
	}
	patch := Diff(h.last, props)
	if patch.IsEmpty() {
		return
	}
	h.last = props
	a.pending = append(a.pending, staged{handle: h, patch: patch})
}

// Unmount destroys the host object immediately and drops any patches
// staged for it this frame.
func (a *Adapter) Unmount(h *Handle) {
	if h == nil {
		return
	}
	if _, ok := a.handles[h.ID]; !ok {
		return
	}
	delete(a.handles, h.ID)
	kept := a.pending[:0]
	for _, s := range a.pending {
		if s.handle != h {
			kept = append(kept, s)
		}
	}
	a.pending = kept
	h.obj.Destroy()
}

// Flush applies every staged patch as a single batch. The runtime calls
// it once per frame, after reconciliation and layout.
func (a *Adapter) Flush() {
	batch := a.pending
	a.pending = nil
	for _, s := range batch {
		s.handle.obj.Apply(s.patch)
	}
}

// Live returns the number of live host objects.
func (a *Adapter) Live() int {
	return len(a.handles)
}
