package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/app"
	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/config"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

func main() {
	var (
		show     = flag.String("show", "sweep", "show: sweep | extravaganza | countdown | selftest")
		program  = flag.String("program", "", "path to a YAML program (seq.v1)")
		mode     = flag.String("mode", "x", "sweep mode")
		duration = flag.Float64("duration", 10, "seconds per sweep")
		every    = flag.Int("log-every", 10, "log every n-th frame")
		fast     = flag.Bool("fast", false, "run on a manual clock instead of sleeping")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	cfg := config.Default()
	cfg.Driver = "sim"
	cfg.Show = *show
	cfg.Program = *program
	cfg.Animation.Mode = *mode
	cfg.Animation.DurationS = *duration

	board := led.NewSim().LogEvery(*every)
	defer board.Close()

	var clk clock.Clock = clock.Real{}
	if *fast {
		clk = clock.NewFake(time.Now())
	}
	core, err := app.InitCore(cfg, board, clk)
	if err != nil {
		log.Fatal().Err(err).Msg("init")
	}
	ctx := context.Background()
	if *show == "countdown" && *fast {
		// countdown never ends on its own
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	if err := core.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
	log.Info().Int("frames", board.Flushes()).Msg("done")
}
