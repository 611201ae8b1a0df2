package uitest

import (
	"testing"
	"time"
)

func TestFakeClockDefaultsToFixedEpoch(t *testing.T) {
	c := NewFakeClock(time.Time{})
	if !c.Now().Equal(epoch) {
		t.Fatalf("zero start should use the default epoch, got %v", c.Now())
	}
}

func TestFakeClockStartsAtGivenInstant(t *testing.T) {
	start := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)
	if got := c.Advance(time.Second); !got.Equal(start.Add(time.Second)) {
		t.Fatalf("advance from explicit start: got %v", got)
	}
	c.Set(start)
	if !c.Now().Equal(start) {
		t.Fatalf("set should jump exactly, got %v", c.Now())
	}
}
