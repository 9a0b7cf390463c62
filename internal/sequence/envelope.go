package sequence

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// smootherstep (cubic-ish) for ease="cubic"
func smootherstep(x float64) float64 {
	// 6x^5 - 15x^4 + 10x^3
	return x * x * x * (x*(x*6-15) + 10)
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "linear", "":
		return x
	case "smooth":
		// classic smoothstep 3x^2 - 2x^3
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	default:
		return x
	}
}

// Eval returns the value of the envelope at time t (seconds).
// If there are no keys, returns 0; if one key, returns its value.
// Keys must be sorted by T ascending.
func (e Envelope) Eval(t float64) float64 {
	n := len(e.Keys)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return e.Keys[0].V
	}
	// before first
	if t <= e.Keys[0].T {
		return e.Keys[0].V
	}
	// after last
	if t >= e.Keys[n-1].T {
		return e.Keys[n-1].V
	}
	// find segment
	for i := 0; i < n-1; i++ {
		a := e.Keys[i]
		b := e.Keys[i+1]
		if t >= a.T && t <= b.T {
			den := (b.T - a.T)
			if den <= 0 {
				return b.V
			}
			u := (t - a.T) / den
			u = clamp01(u)
			u = easeApply(a.Ease, u)
			return a.V + (b.V-a.V)*u
		}
	}
	return e.Keys[n-1].V
}

// Func returns Eval as a fade function, or nil for an empty envelope so
// that no fade is applied at all.
func (e Envelope) Func() func(float64) float64 {
	if len(e.Keys) == 0 {
		return nil
	}
	return e.Eval
}

// FadeInOut ramps from 0 to 1 over in seconds, holds, and ramps back to 0
// over the last out seconds of a clip of length total.
func FadeInOut(in, out, total float64) Envelope {
	var keys []Keyframe
	if in > 0 {
		keys = append(keys, Keyframe{T: 0, V: 0, Ease: "smooth"}, Keyframe{T: in, V: 1})
	} else {
		keys = append(keys, Keyframe{T: 0, V: 1})
	}
	if out > 0 && total-out > in {
		keys[len(keys)-1].Ease = ""
		keys = append(keys, Keyframe{T: total - out, V: 1, Ease: "smooth"}, Keyframe{T: total, V: 0})
	}
	return Envelope{Keys: keys}
}
