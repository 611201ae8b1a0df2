// Package animation drives continuous spring-animated values.
//
// A [Spring] integrates a damped harmonic oscillator toward a target each
// frame. Springs are registered with a [Scheduler], which steps every
// active spring once per host frame tick and drops springs that have
// settled. Spring updates never trigger re-renders on their own; consumers
// couple redraws to the frame tick explicitly via [Scheduler.SubscribeTick].
package animation

import "math"

const (
	// restDisplacement is the displacement threshold below which a spring
	// can settle.
	restDisplacement = 1e-3
	// restVelocity is the velocity threshold below which a spring can settle.
	restVelocity = 1e-3
)

// SpringSpec parameterizes the oscillator. Named presets cover the common
// feels; authors rarely construct specs by hand.
type SpringSpec struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// Named presets. Gentle is overdamped so its approach is monotonic;
// Wobbly and Stiff overshoot.
func DefaultSpring() SpringSpec { return SpringSpec{Stiffness: 170, Damping: 26, Mass: 1} }
func Gentle() SpringSpec        { return SpringSpec{Stiffness: 120, Damping: 26, Mass: 1} }
func Wobbly() SpringSpec        { return SpringSpec{Stiffness: 180, Damping: 12, Mass: 1} }
func Stiff() SpringSpec         { return SpringSpec{Stiffness: 210, Damping: 20, Mass: 1} }
func Slow() SpringSpec          { return SpringSpec{Stiffness: 80, Damping: 18, Mass: 1} }
func Molasses() SpringSpec      { return SpringSpec{Stiffness: 280, Damping: 120, Mass: 1} }

// SpecByName resolves a preset by its lowercase name, falling back to
// DefaultSpring for unknown names.
func SpecByName(name string) SpringSpec {
	switch name {
	case "gentle":
		return Gentle()
	case "wobbly":
		return Wobbly()
	case "stiff":
		return Stiff()
	case "slow":
		return Slow()
	case "molasses":
		return Molasses()
	default:
		return DefaultSpring()
	}
}

// Spring is a continuously animated scalar.
//
// Spring is not safe for concurrent use; like the rest of the runtime it
// belongs to the single cooperative UI thread.
type Spring struct {
	spec     SpringSpec
	current  float64
	target   float64
	velocity float64
	settled  bool
}

// NewSpring creates a settled spring resting at value.
func NewSpring(spec SpringSpec, value float64) *Spring {
	if spec.Mass <= 0 {
		spec.Mass = 1
	}
	return &Spring{
		spec:    spec,
		current: value,
		target:  value,
		settled: true,
	}
}

// Value returns the current animated value.
func (s *Spring) Value() float64 { return s.current }

// Target returns the value the spring is heading toward.
func (s *Spring) Target() float64 { return s.target }

// Velocity returns the current velocity in units per second.
func (s *Spring) Velocity() float64 { return s.velocity }

// Settled reports whether the spring has come to rest at its target.
func (s *Spring) Settled() bool { return s.settled }

// SetTarget retargets the spring. Changing target mid-flight preserves the
// current velocity, so motion stays continuous.
func (s *Spring) SetTarget(target float64) {
	s.target = target
	s.settled = s.atRest()
}

// UpdateTarget retargets using a function of the previous target.
func (s *Spring) UpdateTarget(update func(prev float64) float64) {
	s.SetTarget(update(s.target))
}

// Snap moves the spring to value immediately, killing all motion.
func (s *Spring) Snap(value float64) {
	s.current = value
	s.target = value
	s.velocity = 0
	s.settled = true
}

// Step advances the simulation by dt seconds using semi-implicit Euler
// integration. It returns true once the spring has settled; after settling
// the value is clamped exactly onto the target.
func (s *Spring) Step(dt float64) bool {
	if s.settled {
		return true
	}
	if dt <= 0 {
		return false
	}

	displacement := s.current - s.target
	accel := (-s.spec.Stiffness*displacement - s.spec.Damping*s.velocity) / s.spec.Mass
	s.velocity += accel * dt
	s.current += s.velocity * dt

	if s.atRest() {
		s.current = s.target
		s.velocity = 0
		s.settled = true
	}
	return s.settled
}

func (s *Spring) atRest() bool {
	return math.Abs(s.current-s.target) < restDisplacement &&
		math.Abs(s.velocity) < restVelocity
}
