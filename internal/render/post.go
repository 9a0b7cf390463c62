package render

import (
	"math"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

// PostPipeline groups the stages applied to raw kernel values before they are
// written. Both are optional.
type PostPipeline struct {
	Ceiling func(buf []float64, s *Settings, elapsed float64)
	Floor   func(buf []float64, lights []layout.Light, s *Settings)
}

// DefaultPost scales by the brightness ceiling and then floors the center.
func DefaultPost() PostPipeline {
	return PostPipeline{Ceiling: DefaultCeiling, Floor: DefaultCenterFloor}
}

// DefaultCeiling multiplies every value by MaxBrightness, further scaled by
// the fade envelope when one is set.
func DefaultCeiling(buf []float64, s *Settings, elapsed float64) {
	ceil := s.MaxBrightness
	if s.Fade != nil {
		ceil *= led.Clamp01(s.Fade(elapsed))
	}
	for i := range buf {
		buf[i] = led.Clamp01(buf[i] * ceil)
	}
}

// DefaultCenterFloor keeps the center light at least at CenterMinValue. The
// floor is absolute, it is not scaled by the ceiling.
func DefaultCenterFloor(buf []float64, lights []layout.Light, s *Settings) {
	for i, l := range lights {
		if l.IsCenter {
			buf[i] = led.Clamp01(math.Max(s.CenterMinValue, buf[i]))
		}
	}
}
