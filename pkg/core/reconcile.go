package core

import (
	stderrors "errors"
	"time"

	loomerrors "github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// effectRun defers one due effect slot to the post-commit phase. Effects
// are queued in mount order: children before parents, siblings in
// declaration order.
type effectRun struct {
	id   instanceID
	slot int
}

// sceneKind maps a primitive node kind to its host object kind.
func sceneKind(k Kind) scene.ObjectKind {
	switch k {
	case KindText:
		return scene.KindText
	case KindImage:
		return scene.KindImage
	case KindSurface:
		return scene.KindSurface
	default:
		return scene.KindGroup
	}
}

// effectiveTheme applies a box's subtree token overrides, if any.
func effectiveTheme(node Node, parent theme.Theme) theme.Theme {
	if bp, ok := node.Props.(BoxProps); ok && len(bp.Theme) > 0 {
		return parent.Merge(bp.Theme)
	}
	return parent
}

// render invokes a component function, recovering panics into structured
// errors. A failed render leaves the instance's committed subtree
// untouched.
func (rt *Runtime) render(id instanceID) (child Node, err error) {
	inst := rt.arena.get(id)
	ctx := &BuildContext{
		rt:     rt,
		id:     id,
		gen:    inst.gen,
		props:  inst.node.ComponentProps,
		theme:  inst.theme,
		active: true,
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ae, ok := r.(*loomerrors.AuthoringError); ok {
			if ae.StackTrace == "" {
				ae.StackTrace = loomerrors.CaptureStack()
			}
			ae.Timestamp = time.Now()
			rt.handler.HandleAuthoring(ae)
			err = ae
			return
		}
		re := &loomerrors.RenderError{
			Component:  inst.node.DisplayName(),
			Recovered:  r,
			StackTrace: loomerrors.CaptureStack(),
			Timestamp:  time.Now(),
		}
		rt.handler.HandleRender(re)
		err = re
	}()
	child = inst.node.Component(ctx)
	ctx.finish()
	return child, nil
}

// mountNode builds the persistent instance subtree for a fresh node. A
// nilInstance result means this node failed to mount; a valid id with a
// non-nil error means the node mounted but some descendant did not.
func (rt *Runtime) mountNode(parent instanceID, node Node, parentTheme theme.Theme) (instanceID, error) {
	inst := rt.arena.alloc(parent, node)
	inst.theme = effectiveTheme(node, parentTheme)

	if node.Kind == KindComponent {
		child, err := rt.render(inst.id)
		if err != nil {
			rt.unmount(inst.id)
			return nilInstance, err
		}
		cid, cerr := rt.mountNode(inst.id, child, inst.theme)
		if cid != nilInstance {
			inst.children = []instanceID{cid}
		}
		rt.collectEffects(inst.id)
		return inst.id, cerr
	}

	h, err := rt.adapter.Mount(sceneKind(node.Kind), scene.ObjectProps{Hidden: true})
	if err != nil {
		var rerr *loomerrors.ResourceError
		if stderrors.As(err, &rerr) {
			rt.handler.HandleResource(rerr)
		}
		rt.arena.release(inst.id)
		return nilInstance, err
	}
	inst.handle = h

	var errs []error
	for _, c := range node.Children {
		cid, cerr := rt.mountNode(inst.id, c, inst.theme)
		if cerr != nil {
			errs = append(errs, cerr)
		}
		if cid != nilInstance {
			inst.children = append(inst.children, cid)
		}
	}
	return inst.id, stderrors.Join(errs...)
}

// patchInstance updates a matched instance in place: new props, new
// theme, recursive reconciliation of its children.
func (rt *Runtime) patchInstance(id instanceID, node Node, parentTheme theme.Theme) error {
	inst := rt.arena.get(id)
	inst.node = node
	inst.theme = effectiveTheme(node, parentTheme)
	if node.Kind == KindComponent {
		return rt.renderAndReconcile(id)
	}
	return rt.reconcileChildren(id, node.Children)
}

// renderAndReconcile re-renders a component instance and reconciles the
// rendered child against the committed one. On render failure the
// previous subtree stays committed and the error propagates.
func (rt *Runtime) renderAndReconcile(id instanceID) error {
	delete(rt.dirty, id)
	inst := rt.arena.get(id)
	child, err := rt.render(id)
	if err != nil {
		return err
	}

	var cerr error
	if len(inst.children) == 1 {
		oldID := inst.children[0]
		if sameIdentity(rt.arena.get(oldID).node, child) {
			cerr = rt.patchInstance(oldID, child, inst.theme)
		} else {
			rt.unmount(oldID)
			inst.children = nil
			var cid instanceID
			cid, cerr = rt.mountNode(id, child, inst.theme)
			if cid != nilInstance {
				inst.children = []instanceID{cid}
			}
		}
	} else {
		var cid instanceID
		cid, cerr = rt.mountNode(id, child, inst.theme)
		if cid != nilInstance {
			inst.children = []instanceID{cid}
		}
	}

	rt.collectEffects(id)
	return cerr
}

// reconcileChildren diffs a primitive's committed children against the
// freshly declared list. Keyed children match by key anywhere in the
// list, so reordering moves instances. Unkeyed children match by
// position; leftovers unmount in reverse declaration order.
func (rt *Runtime) reconcileChildren(id instanceID, fresh []Node) error {
	inst := rt.arena.get(id)
	oldIDs := inst.children

	rt.warnMixedKeys(inst, fresh)

	keyed := make(map[string]instanceID)
	var unkeyed []instanceID
	for _, cid := range oldIDs {
		c := rt.arena.get(cid)
		if c.node.Key != "" {
			keyed[c.node.Key] = cid
		} else {
			unkeyed = append(unkeyed, cid)
		}
	}

	consumed := make(map[instanceID]bool, len(oldIDs))
	next := make([]instanceID, 0, len(fresh))
	var errs []error
	ui := 0

	for pos, n := range fresh {
		oldID := nilInstance
		if n.Key != "" {
			if cid, ok := keyed[n.Key]; ok {
				oldID = cid
				delete(keyed, n.Key)
			}
		} else if ui < len(unkeyed) {
			oldID = unkeyed[ui]
			ui++
		}

		if oldID != nilInstance && sameIdentity(rt.arena.get(oldID).node, n) {
			consumed[oldID] = true
			if err := rt.patchInstance(oldID, n, inst.theme); err != nil {
				errs = append(errs, err)
			}
			next = append(next, oldID)
			continue
		}

		if oldID != nilInstance {
			if n.Key == "" {
				rt.warnRemount(inst, n, unkeyed[ui:], pos)
			}
			rt.unmount(oldID)
			consumed[oldID] = true
		}
		cid, err := rt.mountNode(id, n, inst.theme)
		if err != nil {
			errs = append(errs, err)
		}
		if cid != nilInstance {
			next = append(next, cid)
		}
	}

	for i := len(oldIDs) - 1; i >= 0; i-- {
		cid := oldIDs[i]
		if !consumed[cid] {
			rt.unmount(cid)
		}
	}

	inst.children = next
	return stderrors.Join(errs...)
}

// warnMixedKeys flags sibling lists that mix keyed and unkeyed children.
// Such lists lose keyed matching for the unkeyed part and usually signal
// a forgotten key on dynamically ordered content.
func (rt *Runtime) warnMixedKeys(inst *instance, fresh []Node) {
	if len(fresh) < 2 {
		return
	}
	hasKeyed, hasUnkeyed := false, false
	for _, n := range fresh {
		if n.Key != "" {
			hasKeyed = true
		} else {
			hasUnkeyed = true
		}
	}
	if hasKeyed && hasUnkeyed {
		rt.reporter.MissingKeys(inst.node.DisplayName(), len(fresh))
	}
}

// warnRemount flags a positional type mismatch whose node identity still
// exists later among the old unkeyed siblings. A key would have turned
// the destroy-and-recreate into a state-preserving move.
func (rt *Runtime) warnRemount(inst *instance, n Node, tail []instanceID, pos int) {
	for _, cid := range tail {
		c := rt.arena.get(cid)
		if c != nil && sameIdentity(c.node, n) {
			rt.reporter.UnnecessaryRemount(inst.node.DisplayName(), pos)
			return
		}
	}
}

// rebuild re-renders one dirty component instance during the batched
// frame flush. Instances unmounted since they were marked are skipped.
func (rt *Runtime) rebuild(id instanceID) error {
	inst := rt.arena.get(id)
	if inst == nil || inst.node.Kind != KindComponent {
		return nil
	}
	return rt.renderAndReconcile(id)
}

// collectEffects queues the instance's due effect slots for the
// post-commit phase. Called after the instance's children have been
// reconciled, so queue order is post-order over the tree.
func (rt *Runtime) collectEffects(id instanceID) {
	inst := rt.arena.get(id)
	if inst == nil {
		return
	}
	for i := range inst.slots {
		s := &inst.slots[i]
		if s.kind != slotEffect || !s.due {
			continue
		}
		s.due = false
		s.ran = true
		rt.pendingEffects = append(rt.pendingEffects, effectRun{id: id, slot: i})
	}
}

// unmount tears an instance subtree down. Effect cleanups run first, in
// reverse mount order (parent before children, last sibling first), then
// host resources are destroyed deepest-first and the arena records
// released.
func (rt *Runtime) unmount(id instanceID) {
	rt.runCleanups(id)
	rt.releaseResources(id)
}

func (rt *Runtime) runCleanups(id instanceID) {
	inst := rt.arena.get(id)
	if inst == nil {
		return
	}
	for i := len(inst.slots) - 1; i >= 0; i-- {
		s := &inst.slots[i]
		if s.cleanup != nil {
			s.cleanup()
			s.cleanup = nil
		}
	}
	for i := len(inst.children) - 1; i >= 0; i-- {
		rt.runCleanups(inst.children[i])
	}
}

func (rt *Runtime) releaseResources(id instanceID) {
	inst := rt.arena.get(id)
	if inst == nil {
		return
	}
	for i := len(inst.children) - 1; i >= 0; i-- {
		rt.releaseResources(inst.children[i])
	}
	for i := range inst.slots {
		s := &inst.slots[i]
		if s.spring != nil {
			rt.scheduler.Remove(s.spring)
		}
		if s.unsub != nil {
			s.unsub()
			s.unsub = nil
		}
	}
	if inst.handle != nil {
		rt.adapter.Unmount(inst.handle)
		inst.handle = nil
	}
	if ref := refOf(inst.node.Props); ref != nil {
		ref.Current = nil
	}
	delete(rt.dirty, id)
	rt.arena.release(id)
}
