package game

import "math"

type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func unitOrZero(v Vec2) Vec2 {
	len := v.Len()
	if len <= 1e-6 {
		return Vec2{}
	}
	return v.Scale(1.0 / len)
}

// wrapAngle maps a into [-π, π].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func lerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Rand is the subset of *rand.Rand the simulation draws from. Tests swap in
// scripted sources to pin AI and layout choices.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
