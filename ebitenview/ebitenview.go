// Package ebitenview runs an interactive simulation in an ebiten window.
package ebitenview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Config holds the parameters of the ebiten driver.
type Config struct {
	Step       func() // go to next step
	ForcePause bool   // step manually only?
	TPS        int    // steps per second

	Title   string
	Width   int
	Height  int
	Margin  float64 // world units shown around the confinement region
	Palette *render.Palette
	Logger  *slog.Logger
	HUD     bool // show tick and toxin counters
}

// Run runs an interactive simulation in an ebiten window.
// ebiten owns the frame loop: Update steps the simulation at most TPS
// times per second and Draw renders it.
func Run(ctx context.Context, s *toxinswarm.Simulation, conf *Config) error {
	g := newGame(ctx, s, conf)

	tps := conf.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	ebiten.SetTPS(tps)
	ebiten.SetWindowSize(conf.Width, conf.Height)
	ebiten.SetWindowTitle(conf.Title)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func newGame(ctx context.Context, s *toxinswarm.Simulation, conf *Config) *game {
	g := &game{
		ctx:    ctx,
		sim:    s,
		conf:   conf,
		step:   conf.Step,
		pause:  conf.ForcePause,
		logger: conf.Logger,
		surf: &surface{
			vp: render.Fit(s.Env.Confinement, conf.Margin, conf.Width, conf.Height, 1),
		},
	}
	if g.step == nil {
		g.step = s.Step
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// game implements ebiten.Game.
type game struct {
	ctx    context.Context
	sim    *toxinswarm.Simulation
	conf   *Config
	step   func()
	pause  bool
	logger *slog.Logger
	surf   *surface
}

// input holds the keys pressed since the previous tick.
type input struct {
	quit   bool
	pause  bool
	single bool
}

// Update polls the keyboard then steps the simulation unless paused.
func (g *game) Update() error {
	return g.update(input{
		quit:   inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		pause:  inpututil.IsKeyJustPressed(ebiten.KeySpace),
		single: inpututil.IsKeyJustPressed(ebiten.KeyArrowRight),
	})
}

// update runs one tick given the keys pressed.
func (g *game) update(in input) error {
	if g.ctx.Err() != nil || in.quit {
		return ebiten.Termination
	}
	if in.pause && !g.conf.ForcePause {
		g.pause = !g.pause
	}
	if !g.pause || in.single {
		g.step()
	}
	return nil
}

// Draw renders the current state.
func (g *game) Draw(screen *ebiten.Image) {
	g.surf.dst = screen
	if err := render.Draw(g.surf, g.sim, g.conf.Palette); err != nil {
		g.logger.Warn("frame not presented", "tick", g.sim.Ticks, "err", err)
	}
	if g.conf.HUD {
		msg := fmt.Sprintf("tick %d  bacteria %d  toxins %d  TPS %.0f",
			g.sim.Ticks, len(g.sim.Swarm), len(g.sim.Markers), ebiten.ActualTPS())
		text.Draw(screen, msg, basicfont.Face7x13, 8, 16, color.Black)
	}
}

// Layout keeps a fixed logical screen size.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.conf.Width, g.conf.Height
}

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// surface implements render.Surface on an ebiten image.
type surface struct {
	dst *ebiten.Image
	vp  render.Viewport
}

func (s *surface) Clear(c color.Color) {
	s.dst.Fill(c)
}

func (s *surface) DrawCircle(center toxinswarm.Vec2, radius float64, c color.Color) {
	x, y := s.vp.Point(center)
	r, _ := s.vp.Length(radius)
	vector.DrawFilledCircle(s.dst, float32(x), float32(y), float32(r), c, true)
}

func (s *surface) DrawOutlineCircle(center toxinswarm.Vec2, radius float64, c color.Color, width float64) {
	x, y := s.vp.Point(center)
	r, _ := s.vp.Length(radius)
	vector.StrokeCircle(s.dst, float32(x), float32(y), float32(r), float32(width), c, true)
}

// DrawEllipse fills a polygon approximating the ellipse inscribed in box.
func (s *surface) DrawEllipse(box render.Rect, c color.Color) {
	const segments = 32
	x, y := s.vp.Point(box.Center())
	rx, _ := s.vp.Length(box.W / 2)
	_, ry := s.vp.Length(box.H / 2)

	var path vector.Path
	for k := 0; k < segments; k++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(k) / segments)
		px, py := float32(x+rx*cos), float32(y+ry*sin)
		if k == 0 {
			path.MoveTo(px, py)
		} else {
			path.LineTo(px, py)
		}
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(n.R) / 255
		vs[i].ColorG = float32(n.G) / 255
		vs[i].ColorB = float32(n.B) / 255
		vs[i].ColorA = float32(n.A) / 255
	}
	s.dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// Present is a no-op: ebiten shows the frame once Draw returns.
func (s *surface) Present() error {
	return nil
}
