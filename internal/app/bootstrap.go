package app

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/config"
	"github.com/coreman2200/funtimes-starlight/internal/led"
	"github.com/coreman2200/funtimes-starlight/internal/render"
	"github.com/coreman2200/funtimes-starlight/internal/sequence"
)

var (
	ErrUnknownDriver = errors.New("unknown driver")
	ErrUnknownShow   = errors.New("unknown show")
)

var Drivers = []string{"pwm", "strip", "screen", "sim"}

// OpenBoard opens the output named by cfg.Driver. A strip without an SPI
// port falls back to printing at the console.
func OpenBoard(cfg *config.Config) (led.Board, error) {
	switch cfg.Driver {
	case "pwm":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host init: %w", err)
		}
		names := cfg.Pins
		if len(names) == 0 {
			names = led.DefaultPins
		}
		pins, err := led.LookupPins(names)
		if err != nil {
			return nil, err
		}
		freq := physic.Frequency(cfg.PWMFreqHz) * physic.Hertz
		if freq <= 0 {
			freq = led.DefaultPWMFreq
		}
		return led.NewPWMBoard(pins, freq)
	case "strip":
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host init: %w", err)
		}
		port, err := spireg.Open(cfg.SPI.Dev)
		if err != nil {
			log.Warn().Err(err).Str("dev", cfg.SPI.Dev).Msg("no SPI port, printing at the console")
			return led.NewScreenBoard(), nil
		}
		freq := physic.Frequency(cfg.SPI.SpeedHz) * physic.Hertz
		if freq <= 0 {
			freq = led.DefaultStripFreq
		}
		b, err := led.NewStripBoard(port, freq)
		if err != nil {
			_ = port.Close()
			return nil, err
		}
		return b, nil
	case "screen":
		return led.NewScreenBoard(), nil
	case "sim":
		return led.NewSim().LogEvery(cfg.SimLog), nil
	}
	return nil, fmt.Errorf("%w: %q, choose one of %v", ErrUnknownDriver, cfg.Driver, Drivers)
}

// Core wires one board to the engine and the show player.
type Core struct {
	Cfg   *config.Config
	Board led.Board
	Eng   *render.Engine
	Seq   *sequence.Player
	Clock clock.Clock
}

func InitCore(cfg *config.Config, b led.Board, clk clock.Clock) (*Core, error) {
	if clk == nil {
		clk = clock.Real{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eng, err := render.NewEngine(b, cfg.Geometry(), render.DefaultRegistry(), clk)
	if err != nil {
		return nil, err
	}
	hooks := sequence.Hooks{
		Relayout: eng.Relayout,
		Animate:  eng.Animate,
		Off:      eng.Off,
		Sleep:    clk.Sleep,
	}
	s, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	return &Core{
		Cfg:   cfg,
		Board: b,
		Eng:   eng,
		Seq:   sequence.NewPlayer(hooks, s),
		Clock: clk,
	}, nil
}

// Close turns the star off and releases the board.
func (c *Core) Close() error {
	return c.Board.Close()
}
