package toxinswarm

import (
	"math"
	"math/rand"
	"testing"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		v    Vec2
		θ    float64
		want Vec2
	}{
		{Vec2{1, 0}, 0, Vec2{1, 0}},
		{Vec2{1, 0}, math.Pi / 2, Vec2{0, 1}},
		{Vec2{1, 0}, math.Pi, Vec2{-1, 0}},
		{Vec2{0, 2}, -math.Pi / 2, Vec2{2, 0}},
		{Vec2{3, 4}, 2 * math.Pi, Vec2{3, 4}},
	}
	for _, tt := range tests {
		if got := Rotate(tt.v, tt.θ); Dist(got, tt.want) > eps {
			t.Errorf("Rotate(%v, %v) = %v, want %v", tt.v, tt.θ, got, tt.want)
		}
	}
}

func TestRotatePreservesMagnitude(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	v := Vec2{0.6, -0.8}
	want := v.Norm()
	for i := 0; i < 100000; i++ {
		v = Rotate(v, 0.2*rng.Float64()-0.1)
	}
	if got := v.Norm(); math.Abs(got-want) > 1e-9 {
		t.Errorf("|v| after 100000 rotations = %v, want %v", got, want)
	}
}

func TestDistAngle(t *testing.T) {
	tests := []struct {
		a, b  Vec2
		dist  float64
		angle float64
	}{
		{Vec2{0, 0}, Vec2{3, 4}, 5, math.Atan2(4, 3)},
		{Vec2{1, 1}, Vec2{1, 1}, 0, 0},
		{Vec2{2, 0}, Vec2{0, 0}, 2, math.Pi},
		{Vec2{0, 0}, Vec2{0, -1}, 1, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := Dist(tt.a, tt.b); math.Abs(got-tt.dist) > eps {
			t.Errorf("Dist(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.dist)
		}
		if got := AngleTo(tt.a, tt.b); math.Abs(got-tt.angle) > eps {
			t.Errorf("AngleTo(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.angle)
		}
	}
}

func TestMidpoint(t *testing.T) {
	if got, want := Midpoint(Vec2{1, 2}, Vec2{3, -6}), (Vec2{2, -2}); got != want {
		t.Errorf("Midpoint = %v, want %v", got, want)
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		v, n, want Vec2
	}{
		{Vec2{1, 0}, Vec2{-1, 0}, Vec2{-1, 0}},
		{Vec2{1, 1}, Vec2{0, 1}, Vec2{1, -1}},
		{Vec2{0, 1}, Vec2{1, 0}, Vec2{0, 1}},
	}
	for _, tt := range tests {
		if got := Reflect(tt.v, tt.n); Dist(got, tt.want) > eps {
			t.Errorf("Reflect(%v, %v) = %v, want %v", tt.v, tt.n, got, tt.want)
		}
	}
}
