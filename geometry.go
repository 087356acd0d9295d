package toxinswarm

import "math"

// A Vec2 is a simple 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns u+v.
func (u Vec2) Add(v Vec2) Vec2 {
	return Vec2{u.X + v.X, u.Y + v.Y}
}

// Sub returns u-v.
func (u Vec2) Sub(v Vec2) Vec2 {
	return Vec2{u.X - v.X, u.Y - v.Y}
}

// Scale returns k*u.
func (u Vec2) Scale(k float64) Vec2 {
	return Vec2{k * u.X, k * u.Y}
}

// Neg returns -u.
func (u Vec2) Neg() Vec2 {
	return Vec2{-u.X, -u.Y}
}

// Dot returns the dot product of u and v.
func (u Vec2) Dot(v Vec2) float64 {
	return u.X*v.X + u.Y*v.Y
}

// Norm returns the length of u.
func (u Vec2) Norm() float64 {
	return math.Hypot(u.X, u.Y)
}

// Rotate rotates v by θ radians counterclockwise.
// The result has exactly the magnitude of v up to rounding.
func Rotate(v Vec2, θ float64) Vec2 {
	sin, cos := math.Sincos(θ)
	return Vec2{
		v.X*cos - v.Y*sin,
		v.X*sin + v.Y*cos,
	}
}

// Dist returns the distance between two points.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// AngleTo returns the direction in radians of the ray from one point to another.
func AngleTo(from, to Vec2) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vec2) Vec2 {
	return Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Polar returns the vector of length r and direction θ.
func Polar(r, θ float64) Vec2 {
	sin, cos := math.Sincos(θ)
	return Vec2{r * cos, r * sin}
}

// Reflect returns v reflected off a surface of unit normal n.
// v' = v - 2 * dot(v, n) * n
func Reflect(v, n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}
