// Command toxinswarm runs simulations of bacteria releasing toxins under a microscope.
//
// # Usage
//
// The toxinswarm command takes one optional argument:
//
//	toxinswarm [config_file]
//
// It is the path to a TOML config file.
// If no config file is specified, an interactive simulation
// with default parameters will run in an OpenGL window.
//
// # Config file
//
// The config file is written in TOML. Every key of the Config struct
// can be set, e.g.
//
//	SwarmSize = 200
//	Display = "terminal"
//	Rebound = "accumulate"
//
// If the Output key is set, no window is opened: Steps ticks are run
// and recorded in that HDF5 file.
//
// # Interactive mode
//
// In interactive mode, the simulation can be paused/resumed with space.
// While in pause, pressing right arrow will perform a single step.
// Pressing Esc or closing the window will quit. In the OpenGL window
// scrolling zooms and R resets the view. In a terminal q and Ctrl-C quit too.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/PrincetonUniversity/toxinswarm"
)

const usage = `Usage: toxinswarm [config_file]

The first argument is optional and is the path to a TOML config file.
If no config file is specified, an interactive simulation
with default parameters will run in an OpenGL window.
`

func init() {
	// Most OpenGL functions have to run from the main thread.
	// This is needed to arrange that main() runs on main thread.
	// See https://github.com/golang/go/wiki/LockOSThread for more info.
	runtime.LockOSThread()
}

func main() {
	var conf *Config
	var err error
	switch len(os.Args) {
	case 1:
		conf = DefaultConf
	case 2:
		conf, err = ParseConfig(os.Args[1])
	default:
		err = fmt.Errorf("%d arguments provided (0 required, 1 optional)\n\n%s", len(os.Args)-1, usage)
	}
	if err != nil {
		Fatal(err)
	}

	logger := newLogger(conf.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	// setup simulation
	sim, seed, err := setup(conf)
	if err != nil {
		Fatal(err)
	}
	logger.Info("simulation ready", "bacteria", len(sim.Swarm), "seed", seed,
		"boundary", sim.Env.Boundary, "rebound", sim.Env.Rebound)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run interactively or not depending on config
	if conf.Output == "" {
		err = run(ctx, conf, sim, logger)
	} else {
		err = RunHDF5(ctx, conf, sim, seed, logger)
	}
	if errors.Is(err, context.Canceled) {
		// interrupted by a signal, the partial trace is already closed
		return
	}
	if err != nil {
		Fatal(err)
	}
}

// Fatal prints an error on the standard error and exits with a non-zero status.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

// setup creates the simulation described by conf.
// It returns the seed actually used so that the run can be replayed.
func setup(conf *Config) (*toxinswarm.Simulation, int64, error) {
	p, err := conf.Params()
	if err != nil {
		return nil, 0, err
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim, err := toxinswarm.New(p, rand.New(rand.NewSource(seed)))
	return sim, seed, err
}

// stepper returns a step function that logs world statistics
// at debug level every period ticks.
func stepper(sim *toxinswarm.Simulation, logger *slog.Logger, period int) func() {
	if period <= 0 {
		period = 1
	}
	return func() {
		sim.Step()
		if sim.Ticks%period == 0 {
			logger.Debug("tick", "n", sim.Ticks, "toxins", len(sim.Markers), "collisions", sim.Collisions)
		}
	}
}

// parseLevel maps a level name to a slog.Level.
// Unknown values default to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger creates a leveled text logger writing to w.
func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}
