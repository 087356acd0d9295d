package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/PrincetonUniversity/toxinswarm"
	"github.com/PrincetonUniversity/toxinswarm/hdf5"
)

// A dataPoint is what is recorded in the HDF5 file for each bacterium at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type dataPoint struct {
	Pos   toxinswarm.Vec2 // position
	Vel   toxinswarm.Vec2 // heading
	Size  float64
	Shape int // 0: round, 1: rod
}

// traceAttrs are the config values saved along with the trace.
// Display settings are left out.
type traceAttrs struct {
	Seed           int64
	Steps          int
	SwarmSize      int
	MinSize        float64
	MaxSize        float64
	Speed          float64
	MaxTurn        float64
	CenterX        float64
	CenterY        float64
	Radius         float64
	MarkerLifetime int
	Boundary       string
	Rebound        string
}

// RunHDF5 runs a simulation and saves data to an HDF5 file.
// It stops early when ctx is done.
func RunHDF5(ctx context.Context, conf *Config, sim *toxinswarm.Simulation, seed int64, logger *slog.Logger) error {
	return hdf5.Run(ctx, sim, &hdf5.Config{
		Output:   conf.Output,
		Steps:    conf.Steps,
		Step:     stepper(sim, logger, conf.TPS),
		Datasets: datasets(len(sim.Swarm)),
		Attrs: &traceAttrs{
			Seed:           seed,
			Steps:          conf.Steps,
			SwarmSize:      conf.SwarmSize,
			MinSize:        conf.MinSize,
			MaxSize:        conf.MaxSize,
			Speed:          conf.Speed,
			MaxTurn:        conf.MaxTurn,
			CenterX:        conf.CenterX,
			CenterY:        conf.CenterY,
			Radius:         conf.Radius,
			MarkerLifetime: conf.MarkerLifetime,
			Boundary:       conf.Boundary,
			Rebound:        conf.Rebound,
		},
		Progress: os.Stdout,
		Logger:   logger,
	})
}

// datasets lists what is recorded at every step for a swarm of n bacteria.
func datasets(n int) []*hdf5.Dataset {
	points := make([]dataPoint, n)
	var markers, collisions int
	return []*hdf5.Dataset{
		{
			Name: "particles",
			Val:  dataPoint{},
			Dims: []int{n},
			Data: func(s *toxinswarm.Simulation) interface{} {
				for i := range s.Swarm {
					p := &s.Swarm[i]
					points[i] = dataPoint{Pos: p.Pos, Vel: p.Vel, Size: p.Size, Shape: int(p.Shape)}
				}
				return &points
			},
		},
		{
			Name: "markers",
			Val:  0,
			Data: func(s *toxinswarm.Simulation) interface{} {
				markers = len(s.Markers)
				return &markers
			},
		},
		{
			Name: "collisions",
			Val:  0,
			Data: func(s *toxinswarm.Simulation) interface{} {
				collisions = s.Collisions
				return &collisions
			},
		},
	}
}
