package toxinswarm

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"empty swarm", func(p *Params) { p.SwarmSize = 0 }},
		{"negative swarm", func(p *Params) { p.SwarmSize = -3 }},
		{"zero size", func(p *Params) { p.MinSize = 0 }},
		{"inverted sizes", func(p *Params) { p.MinSize, p.MaxSize = 5, 2 }},
		{"infinite size", func(p *Params) { p.MaxSize = math.Inf(1) }},
		{"negative radius", func(p *Params) { p.Radius = -300 }},
		{"radius below size", func(p *Params) { p.Radius = 4 }},
		{"NaN radius", func(p *Params) { p.Radius = math.NaN() }},
		{"negative speed", func(p *Params) { p.Speed = -1 }},
		{"negative turn", func(p *Params) { p.MaxTurn = -0.1 }},
		{"negative lifetime", func(p *Params) { p.MarkerLifetime = -1 }},
		{"zero lifetime", func(p *Params) { p.MarkerLifetime = 0 }},
		{"NaN min size", func(p *Params) { p.MinSize = math.NaN() }},
		{"infinite min size", func(p *Params) { p.MinSize, p.MaxSize = math.Inf(1), math.Inf(1) }},
		{"infinite speed", func(p *Params) { p.Speed = math.Inf(1) }},
		{"NaN speed", func(p *Params) { p.Speed = math.NaN() }},
		{"infinite turn", func(p *Params) { p.MaxTurn = math.Inf(1) }},
		{"NaN center", func(p *Params) { p.Center.X = math.NaN() }},
		{"infinite center", func(p *Params) { p.Center.Y = math.Inf(-1) }},
		{"infinite radius", func(p *Params) { p.Radius = math.Inf(1) }},
		{"unknown boundary", func(p *Params) { p.Boundary = 7 }},
		{"unknown rebound", func(p *Params) { p.Rebound = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams
			tt.modify(&p)
			_, err := New(p, rand.New(rand.NewSource(1)))
			if !errors.Is(err, ErrConfig) {
				t.Errorf("New() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestNewNilSource(t *testing.T) {
	if _, err := New(DefaultParams, nil); !errors.Is(err, ErrConfig) {
		t.Errorf("New(nil source) error = %v, want ErrConfig", err)
	}
}

func TestNew(t *testing.T) {
	p := DefaultParams
	s, err := New(p, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Swarm) != p.SwarmSize {
		t.Fatalf("got %d particles, want %d", len(s.Swarm), p.SwarmSize)
	}
	if len(s.Markers) != 0 {
		t.Errorf("got %d markers, want 0", len(s.Markers))
	}
	var shapes [2]int
	for i, q := range s.Swarm {
		if q.Size < p.MinSize || q.Size > p.MaxSize {
			t.Errorf("particle %d: size %v out of [%v, %v]", i, q.Size, p.MinSize, p.MaxSize)
		}
		if !s.Env.Confinement.Contains(q.Pos, q.Size) {
			t.Errorf("particle %d: %v outside confinement", i, q.Pos)
		}
		if v := q.Vel.Norm(); math.Abs(v-p.Speed) > eps {
			t.Errorf("particle %d: speed %v, want %v", i, v, p.Speed)
		}
		shapes[q.Shape]++
	}
	if shapes[Round] == 0 || shapes[Rod] == 0 {
		t.Errorf("shapes = %v, want both round and rod bacteria", shapes)
	}
	if s.Env.MarkerLifetime != p.MarkerLifetime || s.Env.MaxTurn != p.MaxTurn {
		t.Errorf("environment %+v does not match params", s.Env)
	}
}

func TestNewSingleParticle(t *testing.T) {
	p := DefaultParams
	p.SwarmSize = 1
	p.MinSize, p.MaxSize = 5, 5
	p.Radius = 5.5
	s, err := New(p, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}
	for k := 0; k < 100; k++ {
		s.Step()
		if d := Dist(s.Swarm[0].Pos, p.Center); d > 0.5+eps {
			t.Fatalf("tick %d: distance %v from center, limit 0.5", k, d)
		}
	}
}
