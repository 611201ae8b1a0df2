package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-loom/loom/pkg/animation"
	"github.com/go-loom/loom/pkg/core"
	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/uitest"
)

func TestUseStateBatchesUpdates(t *testing.T) {
	renders := 0
	var bump func()
	counter := func(ctx *core.BuildContext) core.Node {
		renders++
		n, set := core.UseState(ctx, 0)
		bump = func() { set.Update(func(p int) int { return p + 1 }) }
		return core.Text(core.TextProps{Content: fmt.Sprintf("Count: %d", n)})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(counter, nil))
	require.Equal(t, 1, renders)

	bump()
	bump()
	bump()
	require.NoError(t, ts.Pump())

	assert.Equal(t, 2, renders, "three updates must coalesce into one rebuild")
	assert.Equal(t, []string{"Count: 3"}, ts.Backend.Texts())
}

func TestSetterAfterUnmountIsIgnored(t *testing.T) {
	var poke *core.Setter[int]
	comp := func(ctx *core.BuildContext) core.Node {
		_, set := core.UseState(ctx, 0)
		poke = set
		return core.Text(core.TextProps{Content: "x"})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))
	ts.Unmount()

	poke.Set(42)
	require.NoError(t, ts.Pump())
}

func TestSetterAfterIdRecycleDoesNotTouchNewOccupant(t *testing.T) {
	var stale *core.Setter[int]
	first := func(ctx *core.BuildContext) core.Node {
		n, set := core.UseState(ctx, 100)
		stale = set
		return core.Text(core.TextProps{Content: fmt.Sprintf("first: %d", n)})
	}
	second := func(ctx *core.BuildContext) core.Node {
		n, _ := core.UseState(ctx, 0)
		return core.Text(core.TextProps{Content: fmt.Sprintf("second: %d", n)})
	}
	var stage *core.Setter[int]
	root := func(ctx *core.BuildContext) core.Node {
		s, set := core.UseState(ctx, 0)
		stage = set
		var kids []core.Node
		switch s {
		case 0:
			kids = append(kids, core.Component(first, nil))
		case 2:
			kids = append(kids, core.Component(second, nil))
		}
		return core.Box(core.BoxProps{Width: layout.Fill(), Height: layout.Fill()}, kids...)
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(root, nil))
	assert.Equal(t, []string{"first: 100"}, ts.Backend.Texts())

	// Unmount first, then mount second so it takes first's freed ids.
	stage.Set(1)
	require.NoError(t, ts.Pump())
	stage.Set(2)
	require.NoError(t, ts.Pump())
	require.Equal(t, []string{"second: 0"}, ts.Backend.Texts())

	// The stale setter must not reach through the recycled id.
	stale.Set(42)
	require.NoError(t, ts.Pump())
	assert.Equal(t, []string{"second: 0"}, ts.Backend.Texts())
}

func TestUseRefPersistsWithoutRebuilding(t *testing.T) {
	renders := 0
	var seen []int
	comp := func(ctx *core.BuildContext) core.Node {
		renders++
		r := core.UseRef(ctx, 0)
		seen = append(seen, r.Current)
		r.Current++
		return core.Text(core.TextProps{Content: "ref"})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))
	require.NoError(t, ts.Pump())

	assert.Equal(t, 1, renders, "ref writes must not schedule rebuilds")
	assert.Equal(t, []int{0}, seen)
}

func TestEffectOrderAndCleanupOrder(t *testing.T) {
	var log []string
	note := func(name string) func() func() {
		return func() func() {
			log = append(log, name)
			return func() { log = append(log, "cleanup:"+name) }
		}
	}
	child := func(ctx *core.BuildContext) core.Node {
		name := ctx.Props().(string)
		core.UseEffect(ctx, note(name), []any{})
		return core.Text(core.TextProps{Content: name})
	}
	parent := func(ctx *core.BuildContext) core.Node {
		core.UseEffect(ctx, note("parent"), []any{})
		return core.Box(core.BoxProps{Width: layout.Fill(), Height: layout.Fill()},
			core.Component(child, "child-1"),
			core.Component(child, "child-2"),
		)
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(parent, nil))
	require.Equal(t, []string{"child-1", "child-2", "parent"}, log,
		"effects run post-order: children before parents")

	ts.Unmount()
	require.Equal(t, []string{
		"child-1", "child-2", "parent",
		"cleanup:parent", "cleanup:child-2", "cleanup:child-1",
	}, log, "unmount reverses the exact effect order")
}

func TestEffectDepsGateReruns(t *testing.T) {
	runs, cleanups := 0, 0
	var setDep, setOther *core.Setter[int]
	comp := func(ctx *core.BuildContext) core.Node {
		dep, sd := core.UseState(ctx, 0)
		_, so := core.UseState(ctx, 0)
		setDep, setOther = sd, so
		core.UseEffect(ctx, func() func() {
			runs++
			return func() { cleanups++ }
		}, []any{dep})
		return core.Text(core.TextProps{Content: fmt.Sprintf("dep=%d", dep)})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))
	require.Equal(t, 1, runs)

	setOther.Set(5)
	require.NoError(t, ts.Pump())
	assert.Equal(t, 1, runs, "unchanged deps must not rerun the effect")
	assert.Equal(t, 0, cleanups)

	setDep.Set(1)
	require.NoError(t, ts.Pump())
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, cleanups, "the previous cleanup runs before the rerun")
}

func TestEffectWithNilDepsRunsEveryCommit(t *testing.T) {
	runs := 0
	var poke *core.Setter[int]
	comp := func(ctx *core.BuildContext) core.Node {
		n, set := core.UseState(ctx, 0)
		poke = set
		core.UseEffect(ctx, func() func() {
			runs++
			return nil
		}, nil)
		return core.Text(core.TextProps{Content: fmt.Sprintf("n=%d", n)})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))
	require.Equal(t, 1, runs)

	poke.Set(1)
	require.NoError(t, ts.Pump())
	poke.Set(2)
	require.NoError(t, ts.Pump())

	assert.Equal(t, 3, runs)
}

func TestSpringWithoutTickDoesNotRedraw(t *testing.T) {
	renders := 0
	comp := func(ctx *core.BuildContext) core.Node {
		renders++
		sv := core.UseSpring(ctx, animation.Gentle(), 0)
		core.UseEffect(ctx, func() func() {
			sv.SetTarget(1)
			return nil
		}, []any{})
		return core.Text(core.TextProps{Content: fmt.Sprintf("%.2f", sv.Value())})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))
	for i := 0; i < 5; i++ {
		require.NoError(t, ts.Pump())
	}

	assert.Equal(t, 1, renders, "spring motion alone must not re-render the tree")
	assert.Equal(t, []string{"0.00"}, ts.Backend.Texts(), "the drawn value is stale without a tick subscription")
}

func TestSpringWithTickAnimatesAndSettles(t *testing.T) {
	var spring *core.SpringValue
	comp := func(ctx *core.BuildContext) core.Node {
		core.UseFrameTick(ctx)
		sv := core.UseSpring(ctx, animation.Gentle(), 0)
		spring = sv
		core.UseEffect(ctx, func() func() {
			sv.SetTarget(1)
			return nil
		}, []any{})
		return core.Text(core.TextProps{Content: fmt.Sprintf("%.2f", sv.Value())})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))

	require.NoError(t, ts.Pump())
	mid := spring.Value()
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, 1.0)

	require.NoError(t, ts.PumpAndSettle(10*time.Second))

	assert.True(t, spring.Settled())
	assert.Equal(t, 1.0, spring.Value(), "a settled spring clamps exactly onto its target")
	assert.Equal(t, []string{"1.00"}, ts.Backend.Texts())
	assert.True(t, ts.Runtime.Idle())
}

func TestSpringRetargetPreservesMotion(t *testing.T) {
	var spring *core.SpringValue
	comp := func(ctx *core.BuildContext) core.Node {
		core.UseFrameTick(ctx)
		spring = core.UseSpring(ctx, animation.DefaultSpring(), 0)
		return core.Text(core.TextProps{Content: "animated"})
	}

	ts := uitest.NewTester(t, core.Options{})
	require.NoError(t, ts.Mount(comp, nil))

	spring.SetTarget(100)
	for i := 0; i < 5; i++ {
		require.NoError(t, ts.Pump())
	}
	v := spring.Velocity()
	require.NotZero(t, v)

	spring.UpdateTarget(func(prev float64) float64 { return prev - 100 })

	assert.Equal(t, 0.0, spring.Target())
	assert.Equal(t, v, spring.Velocity(), "retargeting keeps position and velocity")
	require.NoError(t, ts.PumpAndSettle(10*time.Second))
	assert.Equal(t, 0.0, spring.Value())
}
