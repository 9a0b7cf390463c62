package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
	"github.com/coreman2200/funtimes-starlight/internal/render"
	"github.com/coreman2200/funtimes-starlight/internal/sequence"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // spireg name, e.g. /dev/spidev0.0; empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Animation struct {
	Mode           string  `yaml:"mode"` // x | y | radial | angular
	MaxBrightness  float64 `yaml:"max_brightness"`
	Fuzziness      float64 `yaml:"fuzziness"`
	Boomerang      bool    `yaml:"boomerang"`
	Speed          float64 `yaml:"speed"`
	DurationS      float64 `yaml:"duration_s"` // 0 runs until interrupted
	FPS            float64 `yaml:"fps"`
	CenterMinValue float64 `yaml:"center_min_value"`
	FadeInS        float64 `yaml:"fade_in_s,omitempty"`
	FadeOutS       float64 `yaml:"fade_out_s,omitempty"`
}

type Countdown struct {
	Zone         string  `yaml:"zone"`
	DayStartHour int     `yaml:"day_start_hour"`
	BeerHour     int     `yaml:"beer_hour"`
	On           float64 `yaml:"on_brightness"`
	StepMs       int     `yaml:"step_ms"`
	HoldS        float64 `yaml:"hold_s"`
	PauseS       float64 `yaml:"pause_s"`
}

type Config struct {
	Driver    string   `yaml:"driver"` // "pwm" | "strip" | "screen" | "sim"
	PWMFreqHz int      `yaml:"pwm_freq_hz"`
	Pins      []string `yaml:"pins,omitempty"` // center first, then A..Y
	SPI       SPI      `yaml:"spi,omitempty"`
	SimLog    int      `yaml:"sim_log_every,omitempty"`

	Show     string `yaml:"show"`              // "sweep" | "extravaganza" | "countdown" | "selftest"
	Program  string `yaml:"program,omitempty"` // YAML program file, overrides Show
	SelfTest string `yaml:"self_test,omitempty"`

	Animation Animation `yaml:"animation"`
	// Star sizes the layout. Zero inner and center radii are derived from
	// the outer radius and the mode.
	Star      layout.Geometry `yaml:"star"`
	Countdown Countdown       `yaml:"countdown"`
}

var ErrInvalid = errors.New("invalid config")

// Default mirrors a small hobby star on GPIO PWM, sweeping sideways.
func Default() *Config {
	return &Config{
		Driver:    "pwm",
		PWMFreqHz: int(led.DefaultPWMFreq / physic.Hertz),
		Pins:      append([]string(nil), led.DefaultPins...),
		SPI:       SPI{SpeedHz: int(led.DefaultStripFreq / physic.Hertz)},
		Show:      "sweep",
		SelfTest:  "index_sweep",
		Animation: Animation{
			Mode:           "x",
			MaxBrightness:  0.1,
			Fuzziness:      0.01,
			Boomerang:      true,
			Speed:          0.2,
			DurationS:      10,
			FPS:            30,
			CenterMinValue: 0.05,
		},
		Star: layout.Geometry{Outer: 1},
		Countdown: Countdown{
			Zone:         sequence.DefaultZone,
			DayStartHour: 4,
			BeerHour:     16,
			On:           0.1,
			StepMs:       250,
			HoldS:        60,
			PauseS:       2,
		},
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	return LoadOver(path, Default())
}

// LoadOver reads path over base. base is modified.
func LoadOver(path string, base *Config) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := base
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate checks what can be checked without hardware.
func (c *Config) Validate() error {
	if _, err := render.ParseMode(c.Animation.Mode); err != nil {
		return err
	}
	if c.Animation.FPS <= 0 {
		return fmt.Errorf("%w: %v", render.ErrInvalidFPS, c.Animation.FPS)
	}
	a := c.Animation
	if a.MaxBrightness < 0 || a.MaxBrightness > 1 {
		return fmt.Errorf("%w: max_brightness %v not in [0,1]", ErrInvalid, a.MaxBrightness)
	}
	if a.CenterMinValue < 0 || a.CenterMinValue > 1 {
		return fmt.Errorf("%w: center_min_value %v not in [0,1]", ErrInvalid, a.CenterMinValue)
	}
	if a.Fuzziness < 0 {
		return fmt.Errorf("%w: negative fuzziness", ErrInvalid)
	}
	if a.DurationS < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalid)
	}
	cd := c.Countdown
	if cd.DayStartHour < 0 || cd.DayStartHour > 23 || cd.BeerHour < 0 || cd.BeerHour > 23 {
		return fmt.Errorf("%w: countdown hours %d and %d not in 0..23", ErrInvalid, cd.DayStartHour, cd.BeerHour)
	}
	if cd.On < 0 || cd.On > 1 {
		return fmt.Errorf("%w: countdown on_brightness %v not in [0,1]", ErrInvalid, cd.On)
	}
	if cd.StepMs < 0 || cd.HoldS < 0 || cd.PauseS < 0 {
		return fmt.Errorf("%w: negative countdown timing", ErrInvalid)
	}
	if n := len(c.Pins); n != 0 && n != led.Count {
		return fmt.Errorf("%w: %d pins, want %d", layout.ErrInvalidLightCount, n, led.Count)
	}
	return nil
}

// Settings converts the animation section.
func (c *Config) Settings() (render.Settings, error) {
	if err := c.Validate(); err != nil {
		return render.Settings{}, err
	}
	a := c.Animation
	m, _ := render.ParseMode(a.Mode)
	s := render.Settings{
		Mode:           m,
		MaxBrightness:  a.MaxBrightness,
		Fuzziness:      a.Fuzziness,
		Boomerang:      a.Boomerang,
		Speed:          a.Speed,
		Duration:       time.Duration(a.DurationS * float64(time.Second)),
		FPS:            a.FPS,
		CenterMinValue: a.CenterMinValue,
		StarSize:       c.Star.Outer,
	}
	if a.FadeInS > 0 || a.FadeOutS > 0 {
		s.Fade = sequence.FadeInOut(a.FadeInS, a.FadeOutS, a.DurationS).Func()
	}
	return s, nil
}

// Geometry is the star shape for the configured mode.
func (c *Config) Geometry() layout.Geometry {
	g := c.Star
	if g.Inner == 0 && g.Center == 0 {
		return layout.DefaultGeometry(g.Outer, c.Animation.Mode == string(render.ModeRadial))
	}
	return g
}

func (c *Config) CountdownSettings() (sequence.Countdown, error) {
	cd := c.Countdown
	loc, err := time.LoadLocation(cd.Zone)
	if err != nil {
		return sequence.Countdown{}, fmt.Errorf("countdown zone %q: %w", cd.Zone, err)
	}
	return sequence.Countdown{
		Location:     loc,
		DayStartHour: cd.DayStartHour,
		BeerHour:     cd.BeerHour,
		On:           cd.On,
		Step:         time.Duration(cd.StepMs) * time.Millisecond,
		Hold:         time.Duration(cd.HoldS * float64(time.Second)),
		Pause:        time.Duration(cd.PauseS * float64(time.Second)),
	}, nil
}
