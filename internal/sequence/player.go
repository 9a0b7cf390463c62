package sequence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/render"
)

var ErrEmptyProgram = errors.New("program has no clips")

// Player runs a Program clip by clip through Hooks. Run blocks; State and
// Current may be read from other goroutines.
type Player struct {
	// Base supplies MaxBrightness, FPS and StarSize to every clip.
	Base render.Settings
	// Shape picks the star geometry for clips without their own.
	Shape func(outer float64, radial bool) layout.Geometry

	mu    sync.Mutex
	state PlayerState
	prog  Program
	idx   int

	hooks Hooks
}

// NewPlayer constructs a Player with provided hooks.
func NewPlayer(h Hooks, base render.Settings) *Player {
	return &Player{
		Base:  base,
		Shape: layout.ShowGeometry,
		state: Idle,
		hooks: h,
	}
}

// Load replaces the current program after checking every clip, so a bad
// program fails before any light is touched.
func (p *Player) Load(prog Program) error {
	if len(prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	for i, c := range prog.Clips {
		if _, err := render.ParseMode(string(c.Mode)); err != nil {
			return fmt.Errorf("clip %d (%s): %w", i, c.Name, err)
		}
		if c.DurationS < 0 || c.OffAfterS < 0 {
			return fmt.Errorf("clip %d (%s): negative duration", i, c.Name)
		}
		if c.Fuzziness < 0 {
			return fmt.Errorf("clip %d (%s): %w: fuzziness %v is negative", i, c.Name, render.ErrOutOfRange, c.Fuzziness)
		}
		if c.CenterMinValue < 0 || c.CenterMinValue > 1 {
			return fmt.Errorf("clip %d (%s): %w: center min value %v not in [0,1]", i, c.Name, render.ErrOutOfRange, c.CenterMinValue)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
	p.idx = 0
	p.state = Idle
	return nil
}

func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the index of the clip being played.
func (p *Player) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idx
}

// Run plays the loaded program until it ends or ctx is cancelled. The star
// is off when Run returns. Cancellation is not an error.
func (p *Player) Run(ctx context.Context) error {
	p.mu.Lock()
	prog := p.prog
	if len(prog.Clips) == 0 {
		p.mu.Unlock()
		return ErrEmptyProgram
	}
	p.state = Running
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.state = Idle
		p.idx = 0
		p.mu.Unlock()
	}()

	for pass := 0; ; pass++ {
		for i, c := range prog.Clips {
			if ctx.Err() != nil {
				return p.off()
			}
			p.mu.Lock()
			p.idx = i
			p.mu.Unlock()

			log.Info().Int("pass", pass).Int("clip", i).Str("name", c.Name).Str("mode", string(c.Mode)).Msg("clip start")
			if err := p.play(ctx, c); err != nil {
				return err
			}
		}
		if !prog.Loop {
			break
		}
	}
	return p.off()
}

func (p *Player) play(ctx context.Context, c Clip) error {
	if p.hooks.Relayout != nil {
		if err := p.hooks.Relayout(p.Geometry(c)); err != nil {
			return err
		}
	}
	if p.hooks.Animate != nil {
		if err := p.hooks.Animate(ctx, p.Settings(c)); err != nil {
			return err
		}
	}
	if c.OffAfterS > 0 {
		if err := p.off(); err != nil {
			return err
		}
		if p.hooks.Sleep != nil {
			// an interrupted pause ends the program at the next clip
			_ = p.hooks.Sleep(ctx, seconds(c.OffAfterS))
		}
	}
	return nil
}

// Settings combines the base settings with clip c. A clip without a fade
// keeps the base fade.
func (p *Player) Settings(c Clip) render.Settings {
	s := p.Base
	s.Mode = c.Mode
	s.Fuzziness = c.Fuzziness
	s.Speed = c.Speed
	s.Boomerang = c.Boomerang
	s.CenterMinValue = c.CenterMinValue
	s.Duration = seconds(c.DurationS)
	s.Unscaled = c.Unscaled
	s.Spoke = c.Spoke
	if f := c.Fade.Func(); f != nil {
		s.Fade = f
	}
	return s
}

// Geometry is the star shape for clip c.
func (p *Player) Geometry(c Clip) layout.Geometry {
	if c.Geometry != nil {
		return *c.Geometry
	}
	shape := p.Shape
	if shape == nil {
		shape = layout.ShowGeometry
	}
	return shape(p.Base.StarSize, c.Mode == render.ModeRadial)
}

func (p *Player) off() error {
	if p.hooks.Off == nil {
		return nil
	}
	return p.hooks.Off()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
