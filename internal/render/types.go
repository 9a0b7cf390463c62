package render

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
)

var (
	ErrUnsupportedMode = errors.New("unsupported mode")
	ErrInvalidFPS      = errors.New("fps must be positive")
	ErrOutOfRange      = errors.New("setting out of range")
)

// Mode selects which coordinate the sweep travels along.
type Mode string

const (
	ModeX       Mode = "x"
	ModeY       Mode = "y"
	ModeRadial  Mode = "radial"
	ModeAngular Mode = "angular"
)

var Modes = []Mode{ModeX, ModeY, ModeRadial, ModeAngular}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q, choose x, y, radial or angular", ErrUnsupportedMode, s)
}

// Settings configures one animation run. It is passed by value and never
// mutated by the engine.
type Settings struct {
	Mode Mode
	// MaxBrightness scales every kernel value, in [0,1].
	MaxBrightness float64
	// Fuzziness softens the falloff; 0 gives a hard edge.
	Fuzziness float64
	// Boomerang reflects the sweep at its bounds instead of wrapping.
	Boomerang bool
	// Speed is how far the sweep moves per frame, signed.
	Speed float64
	// Duration of the run; zero runs until the context is cancelled.
	Duration time.Duration
	FPS      float64
	// CenterMinValue is the floor of the center light, not scaled by MaxBrightness.
	CenterMinValue float64
	// StarSize is the tip radius used to normalize distances.
	StarSize float64
	// Fade optionally scales MaxBrightness by elapsed seconds.
	Fade func(elapsed float64) float64
	// Unscaled compares raw distances instead of dividing them by StarSize.
	Unscaled bool
	// Spoke makes angular sweeps compare bare angles with a sharper kernel.
	Spoke bool
}

// FrameInterval is the sleep between frames.
func (s Settings) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / s.FPS)
}

// size is the normalizing star size; an unset size counts as 1.
func (s *Settings) size() float64 {
	if s.StarSize == 0 {
		return 1
	}
	return math.Abs(s.StarSize)
}

// norm divides every distance before the kernel.
func (s *Settings) norm() float64 {
	if s.Unscaled {
		return 1
	}
	return s.size()
}

// Renderer computes raw kernel values in [0,1] for one mode.
type Renderer interface {
	Name() Mode
	// Bounds returns the sweep range for a star of the given size.
	Bounds(starSize float64) (min, max float64)
	Render(dst []float64, lights []layout.Light, sweep float64, s *Settings)
}

type Registry struct{ m map[Mode]Renderer }

func NewRegistry() *Registry { return &Registry{m: map[Mode]Renderer{}} }

// DefaultRegistry holds the four sweep modes.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(XSweep{})
	reg.Register(YSweep{})
	reg.Register(RadialSweep{})
	reg.Register(AngularSweep{})
	return reg
}

func (r *Registry) Register(rr Renderer) {
	if rr == nil {
		return
	}
	r.m[rr.Name()] = rr
}

func (r *Registry) Get(m Mode) (Renderer, bool) { rr, ok := r.m[m]; return rr, ok }

func (r *Registry) List() []Mode {
	out := make([]Mode, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
