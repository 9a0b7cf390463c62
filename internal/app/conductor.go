package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-starlight/internal/selftest"
	"github.com/coreman2200/funtimes-starlight/internal/sequence"
)

// selfTestHold is how long each self test frame stays up.
const selfTestHold = 500 * time.Millisecond

var Shows = []string{"sweep", "extravaganza", "countdown", "selftest"}

// Run plays whatever the config asks for until it ends or ctx is cancelled.
func (c *Core) Run(ctx context.Context) error {
	if c.Cfg.Program != "" {
		prog, err := sequence.LoadProgram(c.Cfg.Program)
		if err != nil {
			return err
		}
		return c.RunProgram(ctx, prog)
	}
	return c.RunShow(ctx, c.Cfg.Show)
}

func (c *Core) RunShow(ctx context.Context, name string) error {
	log.Info().Str("show", name).Msg("show start")
	switch name {
	case "sweep":
		s, err := c.Cfg.Settings()
		if err != nil {
			return err
		}
		c.Seq.Base = s
		return c.RunProgram(ctx, sequence.Sweep(s, c.Cfg.Geometry()))
	case "countdown":
		return c.RunCountdown(ctx)
	case "selftest":
		return c.RunSelfTest(ctx, c.Cfg.SelfTest)
	}
	prog, ok := sequence.Builtin(name)
	if !ok {
		return fmt.Errorf("%w: %q, choose one of %v", ErrUnknownShow, name, Shows)
	}
	c.Seq.Base = sequence.ExtravaganzaBase()
	return c.RunProgram(ctx, prog)
}

func (c *Core) RunProgram(ctx context.Context, prog sequence.Program) error {
	if err := c.Seq.Load(prog); err != nil {
		return err
	}
	return c.Seq.Run(ctx)
}

func (c *Core) RunCountdown(ctx context.Context) error {
	cd, err := c.Cfg.CountdownSettings()
	if err != nil {
		return err
	}
	return cd.Run(ctx, c.Board, c.Clock)
}

func (c *Core) RunSelfTest(ctx context.Context, kind string) error {
	k, err := selftest.ParseKind(kind)
	if err != nil {
		return err
	}
	return selftest.Run(ctx, c.Eng, c.Clock, selftest.Plan{Kind: k, Level: c.Cfg.Animation.MaxBrightness}, selfTestHold)
}
