package term

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/render"
	"github.com/gdamore/tcell/v2"
)

// opaque has no transparency so cell colors are exact.
var opaque = render.Palette{
	Background:   color.NRGBA{255, 255, 255, 255},
	Glass:        color.NRGBA{100, 100, 100, 255},
	Outline:      color.NRGBA{0, 0, 0, 255},
	Round:        color.NRGBA{0, 255, 0, 255},
	Rod:          color.NRGBA{0, 0, 255, 255},
	Toxin:        color.NRGBA{255, 0, 0, 255},
	OutlineWidth: 2,
	ToxinRadius:  5,
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

// With an 80×24 screen the world spans X in [-400, 600] and Y in [-200, 400],
// i.e. 12.5 world units per column and 25 per row.
func testSim() *toxinswarm.Simulation {
	return &toxinswarm.Simulation{
		Swarm: []toxinswarm.Particle{
			{State: toxinswarm.State{Pos: toxinswarm.Vec2{X: 100, Y: 100}}, Parameters: toxinswarm.Parameters{Size: 20}},
		},
		Markers: []toxinswarm.Marker{
			{Pos: toxinswarm.Vec2{X: 100, Y: 250}, Remaining: 60, Lifetime: 60},
		},
		Env: toxinswarm.Environment{
			Confinement: toxinswarm.Confinement{Center: toxinswarm.Vec2{X: 100, Y: 100}, Radius: 300},
		},
	}
}

func background(t *testing.T, screen tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func wantBackground(c color.NRGBA) tcell.Color {
	_, bg, _ := CellStyle(c).Decompose()
	return bg
}

func TestSurfaceDraw(t *testing.T) {
	screen := newScreen(t)
	surf := NewSurface(screen, testSim().Env.Confinement, 0)
	if err := render.Draw(surf, testSim(), &opaque); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"corner", 0, 0, opaque.Background},
		{"glass", 40, 6, opaque.Glass},
		{"bacterium", 40, 12, opaque.Round},
		// toxin smaller than a cell still shows
		{"toxin", 40, 18, opaque.Toxin},
		{"beside toxin", 42, 18, opaque.Glass},
	}
	for _, tt := range tests {
		if got, want := background(t, screen, tt.x, tt.y), wantBackground(tt.want); got != want {
			t.Errorf("%s: cell (%d, %d) = %v, want %v", tt.name, tt.x, tt.y, got, want)
		}
	}
}

func TestSurfaceBlend(t *testing.T) {
	screen := newScreen(t)
	c := toxinswarm.Confinement{Center: toxinswarm.Vec2{X: 100, Y: 100}, Radius: 300}
	surf := NewSurface(screen, c, 0)
	surf.Clear(color.White)
	surf.DrawCircle(c.Center, 100, color.NRGBA{0, 0, 0, 128})
	if err := surf.Present(); err != nil {
		t.Fatal(err)
	}
	if got, want := background(t, screen, 40, 12), wantBackground(color.NRGBA{127, 127, 127, 255}); got != want {
		t.Errorf("half transparent black over white = %v, want %v", got, want)
	}
}

func TestSurfaceResize(t *testing.T) {
	screen := newScreen(t)
	surf := NewSurface(screen, testSim().Env.Confinement, 0)
	screen.SetSize(40, 10)
	surf.Resize()
	if surf.w != 40 || surf.h != 10 || len(surf.buf) != 400 {
		t.Errorf("after resize got %d×%d with %d cells, want 40×10 with 400", surf.w, surf.h, len(surf.buf))
	}
	// every shape is clipped to the new grid
	if err := render.Draw(surf, testSim(), &opaque); err != nil {
		t.Fatal(err)
	}
}

func TestRunSingleStep(t *testing.T) {
	screen := newScreen(t)
	s := testSim()
	s.Rand = fixedSource(0.5)

	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), screen, s, &Config{ForcePause: true, TPS: 100, Palette: &opaque})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Esc")
	}
	if s.Ticks != 1 {
		t.Errorf("Ticks = %d, want 1", s.Ticks)
	}
}

func TestRunCancel(t *testing.T) {
	screen := newScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, screen, testSim(), &Config{ForcePause: true}); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func TestPollEventsQuit(t *testing.T) {
	screen := newScreen(t)
	events := make(chan tcell.Event) // never drained
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		pollEvents(screen, events, quit)
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	close(quit)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event poller blocked after quit")
	}
}
