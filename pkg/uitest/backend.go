// Package uitest provides a headless harness for composition tests: a
// recording scene backend, a controllable clock, and a tester that pumps
// frames deterministically.
package uitest

import (
	"github.com/go-loom/loom/pkg/scene"
)

// FakeObject is a recorded host scene object. Props always reflects the
// last applied patch set.
type FakeObject struct {
	Kind  scene.ObjectKind
	Props scene.ObjectProps

	// Patches counts Apply calls, including the mount patch.
	Patches   int
	Destroyed bool
}

// Apply merges a patch into the recorded props.
func (o *FakeObject) Apply(p scene.Patch) {
	o.Patches++
	if p.Frame != nil {
		o.Props.Frame = *p.Frame
	}
	if p.Hidden != nil {
		o.Props.Hidden = *p.Hidden
	}
	if p.Color != nil {
		o.Props.Color = *p.Color
	}
	if p.BorderWidth != nil {
		o.Props.BorderWidth = *p.BorderWidth
	}
	if p.BorderColor != nil {
		o.Props.BorderColor = *p.BorderColor
	}
	if p.Text != nil {
		o.Props.Text = *p.Text
	}
	if p.FontSize != nil {
		o.Props.FontSize = *p.FontSize
	}
	if p.Source != nil {
		o.Props.Source = *p.Source
	}
}

// Destroy marks the object dead. The record stays for assertions.
func (o *FakeObject) Destroy() {
	o.Destroyed = true
}

// RecordingBackend implements scene.Backend against in-memory objects.
// Tests inspect the recorded objects instead of a real host.
type RecordingBackend struct {
	// Objects holds every created object in creation order, destroyed
	// ones included.
	Objects []*FakeObject

	// FailKinds injects creation failures per object kind.
	FailKinds map[scene.ObjectKind]error
}

// NewRecordingBackend creates an empty backend.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{}
}

// Create records and returns a new fake object, or the injected failure
// for its kind.
func (b *RecordingBackend) Create(kind scene.ObjectKind) (scene.Object, error) {
	if err, ok := b.FailKinds[kind]; ok {
		return nil, err
	}
	o := &FakeObject{Kind: kind}
	b.Objects = append(b.Objects, o)
	return o, nil
}

// Live counts objects not yet destroyed.
func (b *RecordingBackend) Live() int {
	n := 0
	for _, o := range b.Objects {
		if !o.Destroyed {
			n++
		}
	}
	return n
}

// ByKind returns the live objects of one kind in creation order.
func (b *RecordingBackend) ByKind(kind scene.ObjectKind) []*FakeObject {
	var out []*FakeObject
	for _, o := range b.Objects {
		if o.Kind == kind && !o.Destroyed {
			out = append(out, o)
		}
	}
	return out
}

// Texts returns the visible text contents in creation order, a cheap
// finder for assertions.
func (b *RecordingBackend) Texts() []string {
	var out []string
	for _, o := range b.Objects {
		if o.Kind == scene.KindText && !o.Destroyed && !o.Props.Hidden {
			out = append(out, o.Props.Text)
		}
	}
	return out
}
