package render

// Sweep is the moving coordinate of an animation.
type Sweep struct {
	Pos, Vel  float64
	Min, Max  float64
	Boomerang bool
}

// NewSweep starts at lo, or at hi for a negative speed without boomerang.
func NewSweep(lo, hi, speed float64, boomerang bool) Sweep {
	s := Sweep{Pos: lo, Vel: speed, Min: lo, Max: hi, Boomerang: boomerang}
	if speed < 0 && !boomerang {
		s.Pos = hi
	}
	return s
}

// Bounce applies the bound rules before a frame is rendered. With boomerang
// the velocity is reflected once the position leaves the range; otherwise the
// position wraps to the opposite bound.
func (s *Sweep) Bounce() {
	if s.Boomerang {
		if s.Pos > s.Max && s.Vel > 0 {
			s.Vel = -s.Vel
		}
		if s.Pos < s.Min && s.Vel < 0 {
			s.Vel = -s.Vel
		}
		return
	}
	if s.Pos > s.Max {
		s.Pos = s.Min
	} else if s.Pos < s.Min && s.Vel < 0 {
		s.Pos = s.Max
	}
}

// Advance moves the sweep by one frame.
func (s *Sweep) Advance() { s.Pos += s.Vel }
