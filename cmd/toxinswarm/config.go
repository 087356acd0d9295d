package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/PrincetonUniversity/toxinswarm"
)

// Config holds the various parameters required for running a simulation.
type Config struct {
	// Output is either a filename (path) for the HDF5 output file,
	// or the empty string for an interactive simulation.
	Output string
	Steps  int // number of ticks (hdf5 only)

	// Interactive display parameters
	Display string  // possible values: opengl, ebiten, terminal
	TPS     int     // maximum ticks per second
	Title   string  // window title
	Width   int     // unit: pixel
	Height  int     // unit: pixel
	Margin  float64 // world units shown around the confinement region (ebiten, terminal)
	HUD     bool    // show counters (ebiten only)

	Seed     int64  // random seed, 0 for a time-based seed
	LogLevel string // possible values: info, debug

	// Bacteria parameters
	SwarmSize int     // number of bacteria
	MinSize   float64 // unit: world unit
	MaxSize   float64 // unit: world unit
	Speed     float64 // unit: world unit/tick
	MaxTurn   float64 // unit: rad/tick

	// Confinement parameters
	CenterX float64
	CenterY float64
	Radius  float64

	MarkerLifetime int    // unit: tick
	Boundary       string // possible values: clamp, reflect
	Rebound        string // possible values: invert, accumulate
}

// DefaultConf are the default parameters.
var DefaultConf = &Config{
	Output:         "",
	Steps:          10000,
	Display:        "opengl",
	TPS:            30,
	Title:          "Toxinswarm",
	Width:          800,
	Height:         600,
	Margin:         10,
	HUD:            true,
	Seed:           0,
	LogLevel:       "info",
	SwarmSize:      toxinswarm.DefaultParams.SwarmSize,
	MinSize:        toxinswarm.DefaultParams.MinSize,
	MaxSize:        toxinswarm.DefaultParams.MaxSize,
	Speed:          toxinswarm.DefaultParams.Speed,
	MaxTurn:        toxinswarm.DefaultParams.MaxTurn,
	CenterX:        toxinswarm.DefaultParams.Center.X,
	CenterY:        toxinswarm.DefaultParams.Center.Y,
	Radius:         toxinswarm.DefaultParams.Radius,
	MarkerLifetime: toxinswarm.DefaultParams.MarkerLifetime,
	Boundary:       toxinswarm.DefaultParams.Boundary.String(),
	Rebound:        toxinswarm.DefaultParams.Rebound.String(),
}

// ParseConfig parses the TOML config file whose path is provided.
// Keys absent from the file keep their default value.
func ParseConfig(path string) (*Config, error) {
	// config file overwrites default parameters
	conf := *DefaultConf
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(names, ", "))
	}
	return &conf, nil
}

// Params converts the config into simulation parameters.
func (c *Config) Params() (toxinswarm.Params, error) {
	p := toxinswarm.Params{
		SwarmSize:      c.SwarmSize,
		MinSize:        c.MinSize,
		MaxSize:        c.MaxSize,
		Speed:          c.Speed,
		MaxTurn:        c.MaxTurn,
		Center:         toxinswarm.Vec2{X: c.CenterX, Y: c.CenterY},
		Radius:         c.Radius,
		MarkerLifetime: c.MarkerLifetime,
	}

	switch c.Boundary {
	case "clamp":
		p.Boundary = toxinswarm.BoundaryClamp
	case "reflect":
		p.Boundary = toxinswarm.BoundaryReflect
	default:
		return p, fmt.Errorf("%w: bad boundary %q", toxinswarm.ErrConfig, c.Boundary)
	}

	switch c.Rebound {
	case "invert":
		p.Rebound = toxinswarm.ReboundInvert
	case "accumulate":
		p.Rebound = toxinswarm.ReboundAccumulate
	default:
		return p, fmt.Errorf("%w: bad rebound %q", toxinswarm.ErrConfig, c.Rebound)
	}

	return p, p.Validate()
}
