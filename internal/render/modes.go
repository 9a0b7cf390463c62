package render

import (
	"math"

	"github.com/coreman2200/funtimes-starlight/internal/brightness"
	"github.com/coreman2200/funtimes-starlight/internal/layout"
)

// XSweep moves a vertical line of light left to right.
type XSweep struct{}

func (XSweep) Name() Mode { return ModeX }

func (XSweep) Bounds(size float64) (float64, float64) { return -1.5 * size, 1.5 * size }

func (XSweep) Render(dst []float64, lights []layout.Light, sweep float64, s *Settings) {
	for i, l := range lights {
		dst[i] = brightness.FromDistance(math.Abs(l.Cartesian().X-sweep)/s.norm(), s.Fuzziness)
	}
}

// YSweep moves a horizontal line of light bottom to top.
type YSweep struct{}

func (YSweep) Name() Mode { return ModeY }

func (YSweep) Bounds(size float64) (float64, float64) { return -1.5 * size, 1.5 * size }

func (YSweep) Render(dst []float64, lights []layout.Light, sweep float64, s *Settings) {
	for i, l := range lights {
		dst[i] = brightness.FromDistance(math.Abs(l.Cartesian().Y-sweep)/s.norm(), s.Fuzziness)
	}
}

// RadialSweep grows a ring from the center outward. The center light uses
// its synthetic radius.
type RadialSweep struct{}

func (RadialSweep) Name() Mode { return ModeRadial }

// Bounds starts slightly below zero so the ring fades in on the center.
func (RadialSweep) Bounds(size float64) (float64, float64) { return -0.5, 1.3 * size }

func (RadialSweep) Render(dst []float64, lights []layout.Light, sweep float64, s *Settings) {
	for i, l := range lights {
		rho, _ := l.Polar()
		dst[i] = brightness.FromDistance(math.Abs(rho-sweep)/s.norm(), s.Fuzziness)
	}
}

// AngularSweep turns a spoke of light around the center.
type AngularSweep struct{}

func (AngularSweep) Name() Mode { return ModeAngular }

func (AngularSweep) Bounds(float64) (float64, float64) { return -math.Pi, math.Pi }

func (AngularSweep) Render(dst []float64, lights []layout.Light, sweep float64, s *Settings) {
	for i, l := range lights {
		rho, theta := l.Polar()
		if s.Spoke {
			dst[i] = brightness.FromAngle(theta, sweep, s.Fuzziness)
			continue
		}
		dst[i] = brightness.FromAngularDistance(theta, sweep, rho/s.norm(), s.Fuzziness)
	}
}
