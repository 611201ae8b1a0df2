package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerDropsSettledSprings(t *testing.T) {
	sc := NewScheduler()
	s := NewSpring(Stiff(), 0)
	s.SetTarget(1)
	sc.Add(s)

	require.Equal(t, 1, sc.ActiveCount())
	for i := 0; i < 10000 && sc.Tracked() > 0; i++ {
		sc.Step(frameDt)
	}

	assert.Equal(t, 0, sc.Tracked(), "settled springs must leave the active set")
	assert.Equal(t, 1.0, s.Value())
}

func TestSchedulerAddDedupes(t *testing.T) {
	sc := NewScheduler()
	s := NewSpring(DefaultSpring(), 0)
	s.SetTarget(1)

	sc.Add(s)
	sc.Add(s)

	assert.Equal(t, 1, sc.Tracked())
}

func TestSchedulerReAddAfterRetarget(t *testing.T) {
	sc := NewScheduler()
	s := NewSpring(Stiff(), 0)
	s.SetTarget(1)
	sc.Add(s)
	for sc.Tracked() > 0 {
		sc.Step(frameDt)
	}

	s.SetTarget(2)
	sc.Add(s)

	require.Equal(t, 1, sc.ActiveCount())
	for sc.Tracked() > 0 {
		sc.Step(frameDt)
	}
	assert.Equal(t, 2.0, s.Value())
}

func TestSchedulerRemove(t *testing.T) {
	sc := NewScheduler()
	s := NewSpring(Slow(), 0)
	s.SetTarget(1)
	sc.Add(s)

	sc.Remove(s)

	assert.Equal(t, 0, sc.Tracked())
	sc.Step(frameDt)
	assert.Equal(t, 0.0, s.Value(), "removed springs must not be stepped")
}

func TestTickSubscribersRunEveryStep(t *testing.T) {
	sc := NewScheduler()
	ticks := 0
	unsub := sc.SubscribeTick(func() { ticks++ })

	sc.Step(frameDt)
	sc.Step(frameDt)
	assert.Equal(t, 2, ticks, "ticks must fire even with no active springs")

	unsub()
	sc.Step(frameDt)
	assert.Equal(t, 2, ticks)
}
