// Package render draws a toxinswarm simulation on any drawing surface.
//
// Drivers (OpenGL, ebiten, terminal) implement Surface and own the frame loop.
// They call Draw once per tick, after stepping the simulation.
package render

import (
	"image/color"
	"time"

	"github.com/PrincetonUniversity/toxinswarm"
)

// A Rect is an axis-aligned box in world coordinates.
type Rect struct {
	Min toxinswarm.Vec2 // corner with the smallest coordinates
	W   float64
	H   float64
}

// Center returns the center of r.
func (r Rect) Center() toxinswarm.Vec2 {
	return toxinswarm.Vec2{X: r.Min.X + r.W/2, Y: r.Min.Y + r.H/2}
}

// A Surface accepts draw primitives in world coordinates and presents frames.
type Surface interface {
	Clear(c color.Color)
	DrawCircle(center toxinswarm.Vec2, radius float64, c color.Color)
	DrawEllipse(box Rect, c color.Color)
	DrawOutlineCircle(center toxinswarm.Vec2, radius float64, c color.Color, width float64)
	Present() error
}

// A Palette contains the display properties of a scene.
type Palette struct {
	Background color.NRGBA
	Glass      color.NRGBA // microscope lens
	Outline    color.NRGBA // lens rim
	Halo       color.NRGBA // sphere around each bacterium
	Round      color.NRGBA
	Rod        color.NRGBA
	Toxin      color.NRGBA

	OutlineWidth float64
	HaloRadius   float64
	ToxinRadius  float64
}

// DefaultPalette is an off-white slide under a grey lens.
var DefaultPalette = Palette{
	Background:   color.NRGBA{255, 255, 240, 255},
	Glass:        color.NRGBA{100, 100, 100, 150},
	Outline:      color.NRGBA{0, 0, 0, 255},
	Halo:         color.NRGBA{200, 200, 255, 50},
	Round:        color.NRGBA{0, 255, 0, 255},
	Rod:          color.NRGBA{0, 0, 255, 255},
	Toxin:        color.NRGBA{255, 0, 0, 255},
	OutlineWidth: 2,
	HaloRadius:   20,
	ToxinRadius:  5,
}

// Draw renders one frame of s on dst and presents it.
// Layers are, bottom to top: lens, bacteria, toxins.
func Draw(dst Surface, s *toxinswarm.Simulation, pal *Palette) error {
	if pal == nil {
		pal = &DefaultPalette
	}
	c := s.Env.Confinement

	dst.Clear(pal.Background)
	dst.DrawCircle(c.Center, c.Radius, pal.Glass)
	dst.DrawOutlineCircle(c.Center, c.Radius, pal.Outline, pal.OutlineWidth)

	for i := range s.Swarm {
		p := &s.Swarm[i]
		if pal.HaloRadius > 0 {
			dst.DrawCircle(p.Pos, pal.HaloRadius, pal.Halo)
		}
		switch p.Shape {
		case toxinswarm.Rod:
			dst.DrawEllipse(RodBox(p), pal.Rod)
		default:
			dst.DrawCircle(p.Pos, p.Size, pal.Round)
		}
	}

	for i := range s.Markers {
		m := &s.Markers[i]
		dst.DrawCircle(m.Pos, pal.ToxinRadius, Fade(pal.Toxin, m.Fade()))
	}

	return dst.Present()
}

// RodBox returns the bounding box of a rod-shaped bacterium:
// twice as long as it is wide, lying along the X axis.
func RodBox(p *toxinswarm.Particle) Rect {
	return Rect{
		Min: toxinswarm.Vec2{X: p.Pos.X - p.Size, Y: p.Pos.Y - p.Size/2},
		W:   2 * p.Size,
		H:   p.Size,
	}
}

// Fade scales the alpha channel of c by f in [0, 1].
func Fade(c color.NRGBA, f float64) color.NRGBA {
	switch {
	case f <= 0:
		f = 0
	case f > 1:
		f = 1
	}
	c.A = uint8(float64(c.A)*f + 0.5)
	return c
}

// A Clock caps the rate of a frame loop.
// Wait blocks until at least Period has elapsed since the previous call.
// It caps but does not guarantee the rate.
type Clock struct {
	Period time.Duration
	last   time.Time
}

// NewClock returns a clock ticking at most tps times per second.
func NewClock(tps int) *Clock {
	if tps <= 0 {
		return &Clock{}
	}
	return &Clock{Period: time.Second / time.Duration(tps)}
}

// Wait sleeps until the next tick is due and returns the time elapsed
// since the previous tick.
func (c *Clock) Wait() time.Duration {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	if d := c.Period - now.Sub(c.last); d > 0 {
		time.Sleep(d)
		now = time.Now()
	}
	dt := now.Sub(c.last)
	c.last = now
	return dt
}

// A Viewport maps a world rectangle onto a grid of W×H pixels or cells.
// World and grid Y axes both point down.
type Viewport struct {
	Min toxinswarm.Vec2 // world top left corner
	Max toxinswarm.Vec2 // world bottom right corner
	W   float64
	H   float64
}

// Fit returns the smallest viewport of a w×h grid showing the whole
// confinement region c plus margin on every side, centered on c.
// aspect is the height/width ratio of one grid element: 1 for pixels,
// about 2 for terminal cells.
func Fit(c toxinswarm.Confinement, margin float64, w, h int, aspect float64) Viewport {
	if aspect <= 0 {
		aspect = 1
	}
	d := 2 * (c.Radius + margin)
	k := d / float64(w) // world units per column
	if kh := d / (float64(h) * aspect); kh > k {
		k = kh
	}
	half := toxinswarm.Vec2{X: k * float64(w) / 2, Y: k * aspect * float64(h) / 2}
	return Viewport{
		Min: c.Center.Sub(half),
		Max: c.Center.Add(half),
		W:   float64(w),
		H:   float64(h),
	}
}

// Point converts world coordinates to grid coordinates.
func (v Viewport) Point(p toxinswarm.Vec2) (x, y float64) {
	x = (p.X - v.Min.X) / (v.Max.X - v.Min.X) * v.W
	y = (p.Y - v.Min.Y) / (v.Max.Y - v.Min.Y) * v.H
	return x, y
}

// World converts grid coordinates to world coordinates.
func (v Viewport) World(x, y float64) toxinswarm.Vec2 {
	return toxinswarm.Vec2{
		X: v.Min.X + x/v.W*(v.Max.X-v.Min.X),
		Y: v.Min.Y + y/v.H*(v.Max.Y-v.Min.Y),
	}
}

// Length converts a world length to grid lengths along each axis.
func (v Viewport) Length(l float64) (lx, ly float64) {
	return l / (v.Max.X - v.Min.X) * v.W, l / (v.Max.Y - v.Min.Y) * v.H
}
