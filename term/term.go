// Package term runs an interactive simulation in a terminal.
//
// The world is rasterized on the character grid: every cell is painted
// with the background color of the shapes covering its center.
package term

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/render"
	"github.com/gdamore/tcell/v2"
)

// CellAspect is the height/width ratio of a terminal cell.
const CellAspect = 2.0

// Config holds the parameters of the terminal driver.
type Config struct {
	Step       func() // go to next step
	ForcePause bool   // step manually only?
	TPS        int    // maximum steps per second

	Margin  float64 // world units shown around the confinement region
	Palette *render.Palette
	Logger  *slog.Logger
}

// Run runs an interactive simulation on screen, which must be initialized.
// Esc, Ctrl-C or q quits, space pauses, right arrow steps while paused.
func Run(ctx context.Context, screen tcell.Screen, s *toxinswarm.Simulation, conf *Config) error {
	step := conf.Step
	if step == nil {
		step = s.Step
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tps := conf.TPS
	if tps <= 0 {
		tps = 30
	}

	surf := NewSurface(screen, s.Env.Confinement, conf.Margin)

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go pollEvents(screen, events, quit)

	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	pause := conf.ForcePause
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ' && !conf.ForcePause:
					pause = !pause
				case ev.Key() == tcell.KeyRight && pause:
					step()
					draw(surf, s, conf, logger)
				}
			case *tcell.EventResize:
				surf.Resize()
				screen.Sync()
			}

		case <-ticker.C:
			if !pause {
				step()
			}
			draw(surf, s, conf, logger)
		}
	}
}

// pollEvents forwards screen events to events until the screen is
// finalized or quit is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// screen finalized
			return
		}
		select {
		case events <- ev:
		case <-quit:
			return
		}
	}
}

func draw(surf *Surface, s *toxinswarm.Simulation, conf *Config, logger *slog.Logger) {
	if err := render.Draw(surf, s, conf.Palette); err != nil {
		logger.Warn("frame not presented", "tick", s.Ticks, "err", err)
	}
}

// A Surface implements render.Surface on a tcell screen.
// Shapes are composited with alpha blending in a color buffer
// which is copied to the screen on Present.
type Surface struct {
	screen tcell.Screen
	conf   toxinswarm.Confinement
	margin float64
	vp     render.Viewport
	w, h   int
	buf    []color.NRGBA
}

// NewSurface returns a surface covering screen and showing the
// confinement region c plus margin.
func NewSurface(screen tcell.Screen, c toxinswarm.Confinement, margin float64) *Surface {
	s := &Surface{screen: screen, conf: c, margin: margin}
	s.Resize()
	return s
}

// Resize adapts the surface to the current screen size.
func (s *Surface) Resize() {
	s.w, s.h = s.screen.Size()
	if s.w < 1 || s.h < 1 {
		s.w, s.h = 1, 1
	}
	s.vp = render.Fit(s.conf, s.margin, s.w, s.h, CellAspect)
	s.buf = make([]color.NRGBA, s.w*s.h)
}

func (s *Surface) Clear(c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	for i := range s.buf {
		s.buf[i] = n
	}
}

func (s *Surface) DrawCircle(center toxinswarm.Vec2, radius float64, c color.Color) {
	s.fill(center, radius, radius, c)
}

func (s *Surface) DrawEllipse(box render.Rect, c color.Color) {
	s.fill(box.Center(), box.W/2, box.H/2, c)
}

// DrawOutlineCircle paints the cells whose center lies within width/2
// of the circle, or the closest ones when the line is thinner than a cell.
func (s *Surface) DrawOutlineCircle(center toxinswarm.Vec2, radius float64, c color.Color, width float64) {
	// a line narrower than a cell would skip most cells
	cw, _ := s.vp.Length(1)
	if cell := 1 / cw; width < cell {
		width = cell
	}
	x0, y0, x1, y1 := s.bounds(center, radius+width, radius+width)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := toxinswarm.Dist(s.vp.World(float64(x)+0.5, float64(y)+0.5), center)
			if d >= radius-width/2 && d <= radius+width/2 {
				s.blend(x, y, c)
			}
		}
	}
}

// Present copies the color buffer to the screen and shows it.
func (s *Surface) Present() error {
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			s.screen.SetContent(x, y, ' ', nil, CellStyle(s.buf[y*s.w+x]))
		}
	}
	s.screen.Show()
	return nil
}

// CellStyle is the style of a cell painted with color c.
func CellStyle(c color.NRGBA) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// fill paints the cells whose center lies inside the ellipse of radii rx, ry.
// Shapes smaller than a cell still paint the cell under their center.
func (s *Surface) fill(center toxinswarm.Vec2, rx, ry float64, c color.Color) {
	var painted bool
	x0, y0, x1, y1 := s.bounds(center, rx, ry)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := s.vp.World(float64(x)+0.5, float64(y)+0.5).Sub(center)
			if (p.X*p.X)/(rx*rx)+(p.Y*p.Y)/(ry*ry) <= 1 {
				s.blend(x, y, c)
				painted = true
			}
		}
	}
	if !painted {
		x, y := s.vp.Point(center)
		s.blend(int(x), int(y), c)
	}
}

// bounds returns the cell range covering the box of radii rx, ry around center,
// clipped to the screen.
func (s *Surface) bounds(center toxinswarm.Vec2, rx, ry float64) (x0, y0, x1, y1 int) {
	fx0, fy0 := s.vp.Point(toxinswarm.Vec2{X: center.X - rx, Y: center.Y - ry})
	fx1, fy1 := s.vp.Point(toxinswarm.Vec2{X: center.X + rx, Y: center.Y + ry})
	x0, y0, x1, y1 = clamp(int(fx0), s.w), clamp(int(fy0), s.h), clamp(int(fx1), s.w), clamp(int(fy1), s.h)
	return x0, y0, x1, y1
}

func clamp(i, n int) int {
	switch {
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

// blend composites c over cell (x, y).
func (s *Surface) blend(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	src := color.NRGBAModel.Convert(c).(color.NRGBA)
	dst := &s.buf[y*s.w+x]
	a := float64(src.A) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(a*float64(s) + (1-a)*float64(d) + 0.5)
	}
	dst.R = mix(src.R, dst.R)
	dst.G = mix(src.G, dst.G)
	dst.B = mix(src.B, dst.B)
	dst.A = 255
}
