package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

// Engine animates a laid out star. It is not safe for concurrent use; one
// caller drives it at a time.
type Engine struct {
	Board  led.Board
	Lights []layout.Light
	Reg    *Registry
	Clock  clock.Clock

	// raw kernel values and the levels last written, in layout order
	raw   []float64
	Frame []float64

	post PostPipeline

	// metrics of the last run
	Last struct {
		Frames   int
		RenderMS float64
		Sweep    float64
	}
}

// NewEngine lays out the board with g.
func NewEngine(b led.Board, g layout.Geometry, reg *Registry, clk clock.Clock) (*Engine, error) {
	if b == nil {
		return nil, errors.New("board is nil")
	}
	if reg == nil {
		reg = DefaultRegistry()
	}
	if clk == nil {
		clk = clock.Real{}
	}
	e := &Engine{
		Board: b,
		Reg:   reg,
		Clock: clk,
		raw:   make([]float64, layout.LightCount),
		Frame: make([]float64, layout.LightCount),
		post:  DefaultPost(),
	}
	if err := e.Relayout(g); err != nil {
		return nil, err
	}
	return e, nil
}

// Relayout recomputes light positions, e.g. between clips that want a
// different star shape.
func (e *Engine) Relayout(g layout.Geometry) error {
	ls, err := layout.Compute(e.Board.Lights(), g)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	e.Lights = ls
	return nil
}

func (e *Engine) SetPost(p PostPipeline) { e.post = p }

// Validate checks s against the engine without touching any light.
func (e *Engine) Validate(s Settings) (Renderer, error) {
	rr, ok := e.Reg.Get(s.Mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q, choose x, y, radial or angular", ErrUnsupportedMode, s.Mode)
	}
	if s.FPS <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, s.FPS)
	}
	if s.Fuzziness < 0 {
		return nil, fmt.Errorf("%w: fuzziness %v is negative", ErrOutOfRange, s.Fuzziness)
	}
	if s.MaxBrightness < 0 || s.MaxBrightness > 1 {
		return nil, fmt.Errorf("%w: max brightness %v not in [0,1]", ErrOutOfRange, s.MaxBrightness)
	}
	if s.CenterMinValue < 0 || s.CenterMinValue > 1 {
		return nil, fmt.Errorf("%w: center min value %v not in [0,1]", ErrOutOfRange, s.CenterMinValue)
	}
	if len(e.Lights) != layout.LightCount {
		return nil, fmt.Errorf("%w: got %d, want %d", layout.ErrInvalidLightCount, len(e.Lights), layout.LightCount)
	}
	return rr, nil
}

// Animate runs s until its duration passes or ctx is cancelled. Either way
// every light is off on return. Cancellation is not an error.
func (e *Engine) Animate(ctx context.Context, s Settings) error {
	rr, err := e.Validate(s)
	if err != nil {
		return err
	}
	lo, hi := rr.Bounds(s.size())
	sw := NewSweep(lo, hi, s.Speed, s.Boomerang)
	interval := s.FrameInterval()

	start := e.Clock.Now()
	var deadline time.Time
	if s.Duration > 0 {
		deadline = start.Add(s.Duration)
	}

	log.Info().
		Str("mode", string(s.Mode)).
		Float64("speed", s.Speed).
		Bool("boomerang", s.Boomerang).
		Dur("duration", s.Duration).
		Float64("fps", s.FPS).
		Msg("animation start")

	e.Last.Frames = 0
	for {
		if ctx.Err() != nil {
			log.Info().Int("frames", e.Last.Frames).Msg("animation interrupted")
			return e.Off()
		}
		now := e.Clock.Now()
		if !deadline.IsZero() && now.After(deadline) {
			log.Info().Int("frames", e.Last.Frames).Msg("animation done")
			return e.Off()
		}

		sw.Bounce()
		e.render(rr, sw.Pos, &s, now.Sub(start).Seconds())
		if err := e.WriteFrame(e.Frame); err != nil {
			log.Error().Err(err).Int("frames", e.Last.Frames).Msg("frame write failed")
			return errors.Join(err, e.Off())
		}
		e.Last.Frames++
		e.Last.Sweep = sw.Pos

		if err := e.Clock.Sleep(ctx, interval); err != nil {
			log.Info().Int("frames", e.Last.Frames).Msg("animation interrupted")
			return e.Off()
		}
		sw.Advance()
	}
}

// RenderOnce computes the levels for one sweep position without writing them.
func (e *Engine) RenderOnce(s Settings, sweep, elapsed float64) ([]float64, error) {
	rr, err := e.Validate(s)
	if err != nil {
		return nil, err
	}
	e.render(rr, sweep, &s, elapsed)
	out := make([]float64, len(e.Frame))
	copy(out, e.Frame)
	return out, nil
}

func (e *Engine) render(rr Renderer, sweep float64, s *Settings, elapsed float64) {
	t0 := time.Now()
	rr.Render(e.raw, e.Lights, sweep, s)
	copy(e.Frame, e.raw)
	if e.post.Ceiling != nil {
		e.post.Ceiling(e.Frame, s, elapsed)
	}
	if e.post.Floor != nil {
		e.post.Floor(e.Frame, e.Lights, s)
	}
	e.Last.RenderMS = float64(time.Since(t0).Microseconds()) / 1000.0
}

// WriteFrame pushes levels, in layout order, to the lights and latches the
// board.
func (e *Engine) WriteFrame(levels []float64) error {
	if len(levels) != len(e.Lights) {
		return fmt.Errorf("%w: got %d levels, want %d", layout.ErrInvalidLightCount, len(levels), len(e.Lights))
	}
	for i, l := range e.Lights {
		if err := l.Out.SetBrightness(levels[i]); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return led.Flush(e.Board)
}

// Off turns every light off and latches the board.
func (e *Engine) Off() error {
	if err := e.Board.Off(); err != nil {
		return fmt.Errorf("off: %w", err)
	}
	return led.Flush(e.Board)
}
