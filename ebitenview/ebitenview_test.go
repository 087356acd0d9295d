package ebitenview

import (
	"context"
	"errors"
	"testing"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/hajimehoshi/ebiten/v2"
)

func testSim() *toxinswarm.Simulation {
	return &toxinswarm.Simulation{
		Env: toxinswarm.Environment{
			Confinement: toxinswarm.Confinement{Center: toxinswarm.Vec2{X: 400, Y: 300}, Radius: 300},
		},
	}
}

// countingGame returns a game whose step function counts its calls.
func countingGame(ctx context.Context, conf Config) (*game, *int) {
	var n int
	conf.Step = func() { n++ }
	conf.Width, conf.Height = 800, 600
	return newGame(ctx, testSim(), &conf), &n
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name       string
		forcePause bool
		inputs     []input
		steps      int
		paused     bool
	}{
		{"running", false, []input{{}, {}, {}}, 3, false},
		{"pause", false, []input{{}, {pause: true}, {}, {}}, 1, true},
		{"resume", false, []input{{pause: true}, {}, {pause: true}, {}}, 2, false},
		{"single step while paused", false, []input{{pause: true}, {single: true}, {}, {single: true}}, 2, true},
		{"forced pause ignores space", true, []input{{pause: true}, {}, {single: true}}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, n := countingGame(context.Background(), Config{ForcePause: tt.forcePause})
			for i, in := range tt.inputs {
				if err := g.update(in); err != nil {
					t.Fatalf("update %d: %v", i, err)
				}
			}
			if *n != tt.steps {
				t.Errorf("got %d steps, want %d", *n, tt.steps)
			}
			if g.pause != tt.paused {
				t.Errorf("paused = %v, want %v", g.pause, tt.paused)
			}
		})
	}
}

func TestUpdateQuit(t *testing.T) {
	g, n := countingGame(context.Background(), Config{})
	if err := g.update(input{quit: true}); !errors.Is(err, ebiten.Termination) {
		t.Errorf("update(Esc) = %v, want %v", err, ebiten.Termination)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, n = countingGame(ctx, Config{})
	if err := g.update(input{}); !errors.Is(err, ebiten.Termination) {
		t.Errorf("update() after cancel = %v, want %v", err, ebiten.Termination)
	}
	if *n != 0 {
		t.Errorf("stepped %d times after termination, want 0", *n)
	}
}

func TestNewGame(t *testing.T) {
	s := testSim()
	g := newGame(context.Background(), s, &Config{Width: 800, Height: 600})
	if g.step == nil || g.logger == nil {
		t.Fatal("defaults not set")
	}
	// without a step function the simulation steps itself
	g.step()
	if s.Ticks != 1 {
		t.Errorf("Ticks = %d, want 1", s.Ticks)
	}
	if w, h := g.Layout(1920, 1080); w != 800 || h != 600 {
		t.Errorf("Layout() = %d×%d, want 800×600", w, h)
	}
	// the confinement region fits the window, centered
	x, y := g.surf.vp.Point(s.Env.Confinement.Center)
	if x != 400 || y != 300 {
		t.Errorf("center drawn at (%v, %v), want (400, 300)", x, y)
	}
}
