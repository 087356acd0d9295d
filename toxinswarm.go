// Package toxinswarm runs real-time simulations of bacteria releasing toxins.
//
// A fixed number of bacteria wander inside a circular confinement region,
// as seen through a microscope. Their heading follows a random walk.
// When two bacteria touch they rebound and a toxin marker is released
// at the contact point. Toxins fade after a fixed number of ticks.
package toxinswarm

import "fmt"

// A Source provides uniform random numbers in [0, 1).
// A *rand.Rand seeded once makes a simulation replayable.
type Source interface {
	Float64() float64
}

// Boundary selects how particles are kept inside the confinement region.
type Boundary int

const (
	// BoundaryClamp snaps a particle that crossed the rim back onto it,
	// radially, without changing its heading.
	BoundaryClamp Boundary = iota
	// BoundaryReflect mirrors the overshoot back inside
	// and reflects the heading about the rim normal.
	BoundaryReflect
)

// String returns the config name of the boundary mode.
func (b Boundary) String() string {
	switch b {
	case BoundaryClamp:
		return "clamp"
	case BoundaryReflect:
		return "reflect"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// Rebound selects how colliding particles change heading.
type Rebound int

const (
	// ReboundInvert negates both headings for every colliding pair.
	// A particle hit twice in the same tick ends up with its heading unchanged.
	ReboundInvert Rebound = iota
	// ReboundAccumulate sums the contact normals of each particle over the tick
	// and reflects its heading once about the sum.
	ReboundAccumulate
)

// String returns the config name of the rebound mode.
func (r Rebound) String() string {
	switch r {
	case ReboundInvert:
		return "invert"
	case ReboundAccumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("Rebound(%d)", int(r))
	}
}

// A Confinement is the circular region particles stay in.
type Confinement struct {
	Center Vec2
	Radius float64
}

// Contains reports whether a particle of the given size at p is fully inside.
func (c Confinement) Contains(p Vec2, size float64) bool {
	return Dist(p, c.Center) <= c.Radius-size
}

// clamp moves p onto the rim along the ray from the center if it got out.
func (c Confinement) clamp(p *Particle) {
	r := c.Radius - p.Size
	if Dist(p.Pos, c.Center) <= r {
		return
	}
	p.Pos = c.Center.Add(Polar(r, AngleTo(c.Center, p.Pos)))
}

// reflect bounces p off the rim.
func (c Confinement) reflect(p *Particle) {
	r := c.Radius - p.Size
	d := Dist(p.Pos, c.Center)
	if d <= r {
		return
	}
	n := Polar(1, AngleTo(c.Center, p.Pos))
	back := r - (d - r)
	if back < 0 {
		back = 0
	}
	p.Pos = c.Center.Add(n.Scale(back))
	if p.Vel.Dot(n) > 0 {
		p.Vel = Reflect(p.Vel, n)
	}
}

// An Environment contains the parameters shared by all particles.
type Environment struct {
	Confinement Confinement

	// MaxTurn is the largest heading perturbation per tick, in radians.
	// Perturbations are uniform in [-MaxTurn, MaxTurn].
	MaxTurn float64

	// MarkerLifetime is the number of ticks a new marker stays active.
	MarkerLifetime int

	Boundary Boundary
	Rebound  Rebound
}

// A Simulation contains all the state and parameters of a simulation.
// It is not safe for concurrent use.
type Simulation struct {
	Swarm   []Particle
	Markers []Marker
	Env     Environment
	Rand    Source

	Ticks      int // number of steps run so far
	Collisions int // number of colliding pairs during the last step
}

// Step runs a single simulation step: move, collide, decay.
func (s *Simulation) Step() {
	for i := range s.Swarm {
		s.Swarm[i].Step(s)
	}
	spawned := s.collide()
	s.Decay()
	for _, m := range spawned {
		// a marker born without lifetime is never active
		if !m.Expired() {
			s.Markers = append(s.Markers, m)
		}
	}
	s.Ticks++
}

// Decay ages every active marker by one tick and removes the expired ones.
// It must be called at most once per tick.
func (s *Simulation) Decay() {
	active := s.Markers[:0]
	for i := range s.Markers {
		s.Markers[i].Step()
		if !s.Markers[i].Expired() {
			active = append(active, s.Markers[i])
		}
	}
	s.Markers = active
}
