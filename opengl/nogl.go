//go:build nogl
// +build nogl

package opengl

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/render"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func()
	ForcePause bool
	TPS        int

	Title   string
	Width   int
	Height  int
	Palette *render.Palette
	Logger  *slog.Logger

	// Bounds of default viewport.
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run returns an error explaining that OpenGL support is disabled.
func Run(ctx context.Context, s *toxinswarm.Simulation, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support", os.Args[0])
}
