package uitest_test

import (
	"testing"
	"time"

	"github.com/go-loom/loom/pkg/animation"
	"github.com/go-loom/loom/pkg/core"
	"github.com/go-loom/loom/pkg/uitest"
)

func TestTesterMountAndSettleStaticTree(t *testing.T) {
	comp := func(ctx *core.BuildContext) core.Node {
		return core.Text(core.TextProps{Content: "static"})
	}
	ts := uitest.NewTester(t, core.Options{})

	if err := ts.Mount(comp, nil); err != nil {
		t.Fatal(err)
	}
	if err := ts.PumpAndSettle(time.Second); err != nil {
		t.Errorf("expected a static tree to settle immediately, got: %v", err)
	}
	if got := ts.Backend.Texts(); len(got) != 1 || got[0] != "static" {
		t.Errorf("unexpected texts %v", got)
	}
}

func TestPumpAndSettleTimesOutOnPerpetualMotion(t *testing.T) {
	comp := func(ctx *core.BuildContext) core.Node {
		core.UseFrameTick(ctx)
		sv := core.UseSpring(ctx, animation.Slow(), 0)
		// Chasing a moving target never settles.
		sv.UpdateTarget(func(prev float64) float64 { return prev + 10 })
		return core.Text(core.TextProps{Content: "chasing"})
	}
	ts := uitest.NewTester(t, core.Options{})

	if err := ts.Mount(comp, nil); err != nil {
		t.Fatal(err)
	}
	err := ts.PumpAndSettle(500 * time.Millisecond)
	if err != uitest.ErrSettleTimeout {
		t.Errorf("expected ErrSettleTimeout, got %v", err)
	}
}

func TestClockAdvancesWithPump(t *testing.T) {
	comp := func(ctx *core.BuildContext) core.Node {
		return core.Text(core.TextProps{Content: "tick"})
	}
	ts := uitest.NewTester(t, core.Options{})
	if err := ts.Mount(comp, nil); err != nil {
		t.Fatal(err)
	}

	start := ts.Clock().Now()
	if err := ts.Pump(); err != nil {
		t.Fatal(err)
	}
	if got := ts.Clock().Now().Sub(start); got != uitest.FramePeriod {
		t.Errorf("expected clock to advance one frame period, got %v", got)
	}
}
