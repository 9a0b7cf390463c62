package vec

import "math"

// Vec2 is a point in the plane of the star, relative to its center.
type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// MirrorX reflects v across the vertical axis.
func (v Vec2) MirrorX() Vec2 { return Vec2{-v.X, v.Y} }

// FromPolar converts (rho, theta) to cartesian. theta is counter-clockwise from +X.
func FromPolar(rho, theta float64) Vec2 {
	return Vec2{rho * math.Cos(theta), rho * math.Sin(theta)}
}

// Polar returns rho and theta, theta in (-π, π].
func (v Vec2) Polar() (rho, theta float64) {
	return math.Hypot(v.X, v.Y), math.Atan2(v.Y, v.X)
}

// ToTheta converts an angle measured clockwise from straight up into the
// usual counter-clockwise-from-horizontal angle.
func ToTheta(phi float64) float64 {
	return math.Pi/2 - phi
}

// Rotate turns v clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{
		X: v.X*c + v.Y*s,
		Y: -v.X*s + v.Y*c,
	}
}
