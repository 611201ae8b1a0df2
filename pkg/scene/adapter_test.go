package scene

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loomerrors "github.com/go-loom/loom/pkg/errors"
	"github.com/go-loom/loom/pkg/geometry"
)

type fakeObject struct {
	applied   []Patch
	destroyed bool
}

func (o *fakeObject) Apply(p Patch) { o.applied = append(o.applied, p) }
func (o *fakeObject) Destroy()      { o.destroyed = true }

type fakeBackend struct {
	objects []*fakeObject
	fail    error
}

func (b *fakeBackend) Create(kind ObjectKind) (Object, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	o := &fakeObject{}
	b.objects = append(b.objects, o)
	return o, nil
}

func TestMountStagesFullPatchUntilFlush(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)

	_, err := a.Mount(KindText, ObjectProps{Text: "hi"})
	require.NoError(t, err)

	obj := backend.objects[0]
	assert.Empty(t, obj.applied, "nothing applies before the frame flush")

	a.Flush()
	require.Len(t, obj.applied, 1)
	assert.Equal(t, "hi", *obj.applied[0].Text)
}

func TestUpdateStagesDeltaOnly(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)
	h, err := a.Mount(KindText, ObjectProps{Text: "hi", FontSize: 14})
	require.NoError(t, err)
	a.Flush()

	a.Update(h, ObjectProps{Text: "bye", FontSize: 14})
	a.Flush()

	obj := backend.objects[0]
	require.Len(t, obj.applied, 2)
	delta := obj.applied[1]
	require.NotNil(t, delta.Text)
	assert.Equal(t, "bye", *delta.Text)
	assert.Nil(t, delta.FontSize, "unchanged props must not appear in the patch")
	assert.Nil(t, delta.Frame)
}

func TestUpdateWithNoChangesStagesNothing(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)
	props := ObjectProps{Frame: geometry.Rect{Width: 10, Height: 10}}
	h, err := a.Mount(KindGroup, props)
	require.NoError(t, err)
	a.Flush()

	a.Update(h, props)
	a.Flush()

	assert.Len(t, backend.objects[0].applied, 1)
}

func TestUnmountDestroysAndDropsStagedPatches(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)
	h, err := a.Mount(KindGroup, ObjectProps{})
	require.NoError(t, err)

	a.Unmount(h)
	a.Flush()

	obj := backend.objects[0]
	assert.True(t, obj.destroyed)
	assert.Empty(t, obj.applied, "patches staged for a destroyed handle must be dropped")
	assert.Equal(t, 0, a.Live())
}

func TestUnmountTwiceIsSafe(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)
	h, err := a.Mount(KindGroup, ObjectProps{})
	require.NoError(t, err)

	a.Unmount(h)
	a.Unmount(h)

	assert.Equal(t, 0, a.Live())
}

func TestMountFailureWrapsResourceError(t *testing.T) {
	cause := stderrors.New("out of textures")
	a := NewAdapter(&fakeBackend{fail: cause})

	h, err := a.Mount(KindImage, ObjectProps{})

	assert.Nil(t, h)
	var rerr *loomerrors.ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "image", rerr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, a.Live())
}

func TestFlushBatchesAllStagedPatches(t *testing.T) {
	backend := &fakeBackend{}
	a := NewAdapter(backend)
	h1, _ := a.Mount(KindGroup, ObjectProps{})
	h2, _ := a.Mount(KindText, ObjectProps{Text: "a"})
	a.Flush()

	a.Update(h1, ObjectProps{Hidden: true})
	a.Update(h2, ObjectProps{Text: "b"})
	a.Flush()

	assert.Len(t, backend.objects[0].applied, 2)
	assert.Len(t, backend.objects[1].applied, 2)
}

func TestMeasureTextScalesWithFontSize(t *testing.T) {
	small := MeasureText("hello", 12, 10000)
	large := MeasureText("hello", 24, 10000)

	assert.Greater(t, large.Width, small.Width)
	assert.Greater(t, large.Height, small.Height)
	assert.Equal(t, geometry.Size{}, MeasureText("", 14, 10000))
}
