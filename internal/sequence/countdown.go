package sequence

import (
	"context"
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // the countdown zone must resolve on bare boards

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

// Countdown fills the star toward the afternoon drinks. Before BeerHour the
// lit share of the star grows with the time of day and the frontier light
// breathes; from BeerHour until DayStartHour the whole star is on and the
// center breathes.
type Countdown struct {
	Location     *time.Location
	DayStartHour int
	BeerHour     int
	On           float64

	// Step is the pause after each light while the frame is drawn, Hold how
	// long a full frame stays up and Pause the dark gap before the next one.
	Step  time.Duration
	Hold  time.Duration
	Pause time.Duration
}

const DefaultZone = "Europe/Amsterdam"

func DefaultCountdown() (Countdown, error) {
	loc, err := time.LoadLocation(DefaultZone)
	if err != nil {
		return Countdown{}, fmt.Errorf("countdown zone: %w", err)
	}
	return Countdown{
		Location:     loc,
		DayStartHour: 4,
		BeerHour:     16,
		On:           0.1,
		Step:         250 * time.Millisecond,
		Hold:         60 * time.Second,
		Pause:        2 * time.Second,
	}, nil
}

// Party reports whether now is past BeerHour or before the end of DayStartHour.
func (c Countdown) Party(now time.Time) bool {
	h := now.In(c.Location).Hour()
	return h <= c.DayStartHour || h >= c.BeerHour
}

// Frame returns levels in layout order and the layout index of the light to
// pulse. Lights 0 through pulse are on.
func (c Countdown) Frame(now time.Time) ([]float64, int) {
	levels := make([]float64, layout.LightCount)
	pulse := layout.CenterIndex
	if !c.Party(now) {
		local := now.In(c.Location)
		beer := time.Date(local.Year(), local.Month(), local.Day(), c.BeerHour, 0, 0, 0, c.Location)
		left := math.Floor(beer.Sub(local).Seconds())
		span := float64(c.BeerHour) * 3600
		pulse = int(float64(layout.CenterIndex) - math.Floor(left/span*float64(layout.CenterIndex)))
		if pulse < 0 {
			pulse = 0
		}
	}
	for i := 0; i <= pulse; i++ {
		levels[i] = c.On
	}
	return levels, pulse
}

// Run draws frames on b until ctx is cancelled, then turns the star off.
func (c Countdown) Run(ctx context.Context, b led.Board, clk clock.Clock) error {
	lights := layout.CenterLast(b.Lights())
	if len(lights) != layout.LightCount {
		return fmt.Errorf("%w: got %d, want %d", layout.ErrInvalidLightCount, len(lights), layout.LightCount)
	}
	off := func() error {
		if err := b.Off(); err != nil {
			return err
		}
		return led.Flush(b)
	}
	for {
		levels, pulse := c.Frame(clk.Now())
		log.Info().Int("pulse", pulse).Bool("party", pulse == layout.CenterIndex).Msg("countdown frame")
		for i, l := range lights {
			if err := l.SetBrightness(levels[i]); err != nil {
				return fmt.Errorf("light %d: %w", i, err)
			}
			if i == pulse {
				if err := l.Pulse(); err != nil {
					return fmt.Errorf("pulse %d: %w", i, err)
				}
			}
			if err := led.Flush(b); err != nil {
				return err
			}
			if clk.Sleep(ctx, c.Step) != nil {
				return off()
			}
		}
		if clk.Sleep(ctx, c.Hold) != nil {
			return off()
		}
		if err := off(); err != nil {
			return err
		}
		if clk.Sleep(ctx, c.Pause) != nil {
			return off()
		}
	}
}
