// Package selftest lights the star in fixed patterns to check the wiring.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/layout"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	ArmSweep   Kind = "arm_sweep"
	AllOn      Kind = "all_on"
)

var ErrUnknownKind = errors.New("unknown self test")

var Kinds = []Kind{IndexSweep, ArmSweep, AllOn}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Plan selects a pattern. Level is the brightness of lit lights; zero
// means full.
type Plan struct {
	Kind  Kind
	Level float64
}

type Runner struct {
	plan Plan
	step int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }
func (r *Runner) Kind() Kind      { return r.plan.Kind }

// Step fills levels, in layout order, with the next pattern frame; returns
// false when complete.
func (r *Runner) Step(levels []float64) bool {
	for i := range levels {
		levels[i] = 0
	}
	on := r.plan.Level
	if on <= 0 {
		on = 1
	}

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= len(levels) {
			return false
		}
		levels[r.step] = on
	case ArmSweep:
		// one step per point, the center alone last
		switch {
		case r.step < layout.Points:
			for _, i := range Arm(r.step) {
				levels[i] = on
			}
		case r.step == layout.Points && len(levels) > layout.CenterIndex:
			levels[layout.CenterIndex] = on
		default:
			return false
		}
	case AllOn:
		if r.step > 0 {
			return false
		}
		for i := range levels {
			levels[i] = on
		}
	default:
		return false
	}
	r.step++
	return true
}

// Arm returns the layout indices of the five lights of a point, clockwise
// from the indent on its left.
func Arm(pointNo int) []int {
	return []int{
		layout.MirrorIndex(pointNo, 2),
		layout.MirrorIndex(pointNo, 1),
		layout.Index(pointNo, 0),
		layout.Index(pointNo, 1),
		layout.Index(pointNo, 2),
	}
}

// FrameWriter is the part of the render engine a self test needs.
type FrameWriter interface {
	WriteFrame(levels []float64) error
	Off() error
}

// Run shows every frame of plan for hold, then turns the star off.
// Cancellation ends the test early without an error.
func Run(ctx context.Context, w FrameWriter, clk clock.Clock, plan Plan, hold time.Duration) error {
	if plan.Kind == None {
		return nil
	}
	if _, err := ParseKind(string(plan.Kind)); err != nil {
		return err
	}
	r := NewRunner(plan)
	levels := make([]float64, layout.LightCount)
	for n := 0; r.Step(levels); n++ {
		log.Debug().Str("test", string(plan.Kind)).Int("step", n).Msg("self test")
		if err := w.WriteFrame(levels); err != nil {
			return err
		}
		if clk.Sleep(ctx, hold) != nil {
			break
		}
	}
	return w.Off()
}
