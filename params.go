package toxinswarm

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig is returned by New when its parameters cannot make a valid world.
var ErrConfig = errors.New("invalid configuration")

// Params contains everything needed to create a simulation.
type Params struct {
	SwarmSize int     // number of bacteria
	MinSize   float64 // smallest bacterium radius
	MaxSize   float64 // largest bacterium radius
	Speed     float64 // distance covered per tick
	MaxTurn   float64 // largest heading perturbation per tick, in radians

	Center Vec2    // center of the confinement region
	Radius float64 // radius of the confinement region

	MarkerLifetime int // in ticks

	Boundary Boundary
	Rebound  Rebound
}

// DefaultParams match a 800x600 microscope view.
var DefaultParams = Params{
	SwarmSize:      50,
	MinSize:        2,
	MaxSize:        5,
	Speed:          1,
	MaxTurn:        0.1,
	Center:         Vec2{400, 300},
	Radius:         300,
	MarkerLifetime: 60,
	Boundary:       BoundaryClamp,
	Rebound:        ReboundInvert,
}

// Validate checks that p describes a world that can be simulated.
// The returned error wraps ErrConfig.
func (p *Params) Validate() error {
	bad := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"minimum size", p.MinSize},
		{"maximum size", p.MaxSize},
		{"speed", p.Speed},
		{"maximum turn", p.MaxTurn},
		{"center x", p.Center.X},
		{"center y", p.Center.Y},
		{"confinement radius", p.Radius},
	} {
		if !finite(f.v) {
			return bad("%s must be finite, got %g", f.name, f.v)
		}
	}
	switch {
	case p.SwarmSize <= 0:
		return bad("swarm size must be positive, got %d", p.SwarmSize)
	case p.MinSize <= 0:
		return bad("minimum size must be positive, got %g", p.MinSize)
	case p.MaxSize < p.MinSize:
		return bad("maximum size %g is below minimum size %g", p.MaxSize, p.MinSize)
	case p.Radius <= p.MaxSize:
		return bad("confinement radius %g must exceed maximum size %g", p.Radius, p.MaxSize)
	case p.Speed < 0:
		return bad("speed must be non-negative, got %g", p.Speed)
	case p.MaxTurn < 0:
		return bad("maximum turn must be non-negative, got %g", p.MaxTurn)
	case p.MarkerLifetime < 1:
		return bad("marker lifetime must be at least 1 tick, got %d", p.MarkerLifetime)
	case p.Boundary != BoundaryClamp && p.Boundary != BoundaryReflect:
		return bad("unknown boundary %v", p.Boundary)
	case p.Rebound != ReboundInvert && p.Rebound != ReboundAccumulate:
		return bad("unknown rebound %v", p.Rebound)
	}
	return nil
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// New validates p and returns a simulation populated with randomly
// placed bacteria. rng is used for creation and for every later step.
func New(p Params, rng Source) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfig)
	}

	s := &Simulation{
		Swarm: make([]Particle, p.SwarmSize),
		Env: Environment{
			Confinement:    Confinement{Center: p.Center, Radius: p.Radius},
			MaxTurn:        p.MaxTurn,
			MarkerLifetime: p.MarkerLifetime,
			Boundary:       p.Boundary,
			Rebound:        p.Rebound,
		},
		Rand: rng,
	}

	for i := range s.Swarm {
		q := &s.Swarm[i]
		q.Size = p.MinSize + (p.MaxSize-p.MinSize)*rng.Float64()
		if rng.Float64() < 0.5 {
			q.Shape = Round
		} else {
			q.Shape = Rod
		}

		// uniform in angle and in radius, so denser near the center
		r := (p.Radius - q.Size) * rng.Float64()
		q.Pos = p.Center.Add(Polar(r, 2*math.Pi*rng.Float64()))
		q.Vel = Polar(p.Speed, 2*math.Pi*rng.Float64())
	}

	return s, nil
}
