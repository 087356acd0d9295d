package toxinswarm

// A Marker is a toxin released at a collision site.
// It does not interact with particles and fades after a fixed number of ticks.
type Marker struct {
	Pos       Vec2 // fixed at spawn
	Remaining int  // ticks left before expiry
	Lifetime  int  // initial value of Remaining
}

// Step ages the marker by one tick.
func (m *Marker) Step() {
	m.Remaining--
}

// Expired reports whether the marker must be removed.
func (m *Marker) Expired() bool {
	return m.Remaining <= 0
}

// Fade returns the fraction of lifetime left, between 0 and 1.
func (m *Marker) Fade() float64 {
	switch {
	case m.Lifetime <= 0 || m.Remaining <= 0:
		return 0
	case m.Remaining >= m.Lifetime:
		return 1
	}
	return float64(m.Remaining) / float64(m.Lifetime)
}
