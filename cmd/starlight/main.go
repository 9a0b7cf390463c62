package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/app"
	"github.com/coreman2200/funtimes-starlight/internal/config"
	"github.com/coreman2200/funtimes-starlight/internal/diagnostics"
)

func main() {
	// ---- Flags (remain usable; config.yaml can override most) ----
	def := config.Default()
	var (
		mode       = flag.String("mode", def.Animation.Mode, "sweep mode: x | y | radial | angular")
		maxBright  = flag.Float64("max-brightness", def.Animation.MaxBrightness, "brightness ceiling 0..1")
		fuzziness  = flag.Float64("fuzziness", def.Animation.Fuzziness, "edge softness, 0 is hard")
		boomerang  = flag.Bool("boomerang", def.Animation.Boomerang, "bounce at the bounds instead of wrapping")
		speed      = flag.Float64("speed", def.Animation.Speed, "sweep distance per frame")
		duration   = flag.Float64("duration", def.Animation.DurationS, "seconds to run, 0 runs until interrupted")
		fps        = flag.Float64("fps", def.Animation.FPS, "frames per second")
		centerMin  = flag.Float64("center-min", def.Animation.CenterMinValue, "brightness floor of the center light")
		outer      = flag.Float64("outer-radius", def.Star.Outer, "radius of the tips")
		inner      = flag.Float64("inner-radius", 0, "radius of the indents, 0 derives it from the mode")
		center     = flag.Float64("center-radius", 0, "radius the center light pretends to have")
		driver     = flag.String("driver", def.Driver, "driver: pwm | strip | screen | sim")
		show       = flag.String("show", def.Show, "show: sweep | extravaganza | countdown | selftest")
		program    = flag.String("program", "", "path to a YAML program, overrides -show")
		selfTest   = flag.String("self-test", def.SelfTest, "self test: index_sweep | arm_sweep | all_on")
		configPath = flag.String("config", "starlight.yaml", "path to starlight.yaml")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Effective params (config overrides flags where available) ----
	cfg := config.Default()
	cfg.Driver = *driver
	cfg.Show = *show
	cfg.Program = *program
	cfg.SelfTest = *selfTest
	cfg.Animation.Mode = *mode
	cfg.Animation.MaxBrightness = *maxBright
	cfg.Animation.Fuzziness = *fuzziness
	cfg.Animation.Boomerang = *boomerang
	cfg.Animation.Speed = *speed
	cfg.Animation.DurationS = *duration
	cfg.Animation.FPS = *fps
	cfg.Animation.CenterMinValue = *centerMin
	cfg.Star.Outer = *outer
	cfg.Star.Inner = *inner
	cfg.Star.Center = *center

	if c, err := config.LoadOver(*configPath, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config invalid")
		}
		log.Debug().Str("path", *configPath).Msg("no config file; proceeding with flags")
	} else {
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config invalid")
	}

	// ---- Board ----
	board, err := app.OpenBoard(cfg)
	if err != nil {
		diagnostics.ForOpen(cfg.Driver, err).Log(&log.Logger)
		os.Exit(1)
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Error().Err(err).Msg("close board")
		}
	}()

	core, err := app.InitCore(cfg, board, nil)
	if err != nil {
		log.Error().Err(err).Msg("init")
		return
	}

	// ---- Graceful shutdown: trap SIGINT/SIGTERM and cancel ----
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(ch)
		cancel()
	}()
	go func() {
		select {
		case s := <-ch:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info().
		Str("driver", cfg.Driver).
		Str("show", cfg.Show).
		Str("mode", cfg.Animation.Mode).
		Msg("starlight starting")
	if err := core.Run(ctx); err != nil {
		log.Error().Err(err).Msg("show failed")
	}
}
