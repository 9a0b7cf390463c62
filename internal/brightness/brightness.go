// Package brightness maps a distance from the sweep to a light level.
package brightness

import "math"

// Sharpness is the falloff factor used when fuzziness is zero, which gives a
// near step function instead of dividing by zero.
const Sharpness = 1000.0

// FromDistance returns round(1 - tanh(d/fuzziness), 2). d must be non-negative.
func FromDistance(d, fuzziness float64) float64 {
	k := Sharpness
	if fuzziness != 0 {
		k = 1 / fuzziness
	}
	return round2(1 - math.Tanh(d*k))
}

// FromAngularDistance compares two angles along the shorter arc and scales the
// difference by the light's radius, so outer lights see more travel for the
// same angle.
func FromAngularDistance(a1, a2, radius, fuzziness float64) float64 {
	return FromDistance(math.Abs(math.Sin(shortArc(a1, a2))*radius), fuzziness)
}

// SpokeSharpness multiplies the falloff of FromAngle.
const SpokeSharpness = 3.0

// FromAngle compares bare angles along the shorter arc. Every light sees the
// same falloff whatever its radius, so a sweep looks like a narrow spoke.
func FromAngle(a1, a2, fuzziness float64) float64 {
	k := SpokeSharpness * Sharpness
	if fuzziness != 0 {
		k = SpokeSharpness / fuzziness
	}
	return round2(1 - math.Tanh(shortArc(a1, a2)*k))
}

// shortArc is the angle between a1 and a2 in [0, π].
func shortArc(a1, a2 float64) float64 {
	diff := math.Mod(math.Abs(a1-a2), 2*math.Pi)
	if diff > math.Pi {
		diff = 2*math.Pi - diff
	}
	return diff
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
