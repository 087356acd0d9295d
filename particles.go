package toxinswarm

import "fmt"

// A Shape selects how a bacterium is drawn. It has no effect on physics.
type Shape int

// Possible shapes of a bacterium.
const (
	Round Shape = iota // coccus, drawn as a disc
	Rod                // bacillus, drawn as a flat ellipse
)

// String returns the name of the shape.
func (s Shape) String() string {
	switch s {
	case Round:
		return "round"
	case Rod:
		return "rod"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// State contains the full state of a particle.
type State struct {
	Pos Vec2 // position in world units
	Vel Vec2 // heading: direction times distance covered per tick
}

// Parameters contains the parameters of a particle.
// They are fixed at creation.
type Parameters struct {
	Size  float64 // radius, used both for drawing and collisions
	Shape Shape
}

// A Particle is a single bacterium.
type Particle struct {
	State
	Parameters
}

// Step performs a random-walk move of the particle and keeps it
// inside the confinement region of s.
func (p *Particle) Step(s *Simulation) {
	// perturb heading with a true rotation so that speed is preserved
	θ := s.Env.MaxTurn * (2*s.Rand.Float64() - 1)
	p.Vel = Rotate(p.Vel, θ)

	// move
	p.Pos = p.Pos.Add(p.Vel)

	// confine
	switch s.Env.Boundary {
	case BoundaryReflect:
		s.Env.Confinement.reflect(p)
	default:
		s.Env.Confinement.clamp(p)
	}
}
