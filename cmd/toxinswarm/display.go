package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/ebitenview"
	"github.com/PrincetonUniversity/toxinswarm/opengl"
	"github.com/PrincetonUniversity/toxinswarm/term"
	"github.com/gdamore/tcell/v2"
)

// run runs an interactive simulation with the display selected in conf.
func run(ctx context.Context, conf *Config, sim *toxinswarm.Simulation, logger *slog.Logger) error {
	step := stepper(sim, logger, conf.TPS)
	logger = logger.With("display", conf.Display)

	switch conf.Display {
	case "opengl", "":
		c := sim.Env.Confinement
		// same aspect ratio as the window, Y axis pointing down
		hw := c.Radius + conf.Margin
		hh := hw
		if conf.Width > conf.Height {
			hw = hh * float64(conf.Width) / float64(conf.Height)
		} else {
			hh = hw * float64(conf.Height) / float64(conf.Width)
		}
		return opengl.Run(ctx, sim, &opengl.Config{
			Step:   step,
			TPS:    conf.TPS,
			Title:  conf.Title,
			Width:  conf.Width,
			Height: conf.Height,
			Logger: logger,
			Xmin:   c.Center.X - hw,
			Ymin:   c.Center.Y - hh,
			Xmax:   c.Center.X + hw,
			Ymax:   c.Center.Y + hh,
		})

	case "ebiten":
		return ebitenview.Run(ctx, sim, &ebitenview.Config{
			Step:   step,
			TPS:    conf.TPS,
			Title:  conf.Title,
			Width:  conf.Width,
			Height: conf.Height,
			Margin: conf.Margin,
			Logger: logger,
			HUD:    conf.HUD,
		})

	case "terminal":
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()
		return term.Run(ctx, screen, sim, &term.Config{
			Step:   step,
			TPS:    conf.TPS,
			Margin: conf.Margin,
			Logger: logger,
		})

	default:
		return fmt.Errorf("bad display %q (possible values: opengl, ebiten, terminal)", conf.Display)
	}
}
