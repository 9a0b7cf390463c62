package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/config"
	"github.com/coreman2200/funtimes-starlight/internal/led"
	"github.com/coreman2200/funtimes-starlight/internal/render"
	"github.com/coreman2200/funtimes-starlight/internal/sequence"
)

func simCore(t *testing.T, mod func(c *config.Config)) (*Core, *led.SimBoard, *clock.Fake) {
	t.Helper()
	cfg := config.Default()
	cfg.Driver = "sim"
	cfg.Animation.DurationS = 1
	cfg.Animation.FPS = 10
	if mod != nil {
		mod(cfg)
	}
	b, err := OpenBoard(cfg)
	require.NoError(t, err)
	sim, ok := b.(*led.SimBoard)
	require.True(t, ok)
	clk := clock.NewFake(time.Date(2020, 12, 24, 10, 0, 0, 0, time.UTC))
	core, err := InitCore(cfg, b, clk)
	require.NoError(t, err)
	return core, sim, clk
}

func assertDark(t *testing.T, b *led.SimBoard) {
	t.Helper()
	for i, v := range b.Levels() {
		assert.Equal(t, 0.0, v, "light %d", i)
	}
}

func TestOpenBoard(t *testing.T) {
	cfg := config.Default()
	cfg.Driver = "laser"
	_, err := OpenBoard(cfg)
	assert.ErrorIs(t, err, ErrUnknownDriver)

	cfg.Driver = "screen"
	b, err := OpenBoard(cfg)
	require.NoError(t, err)
	assert.IsType(t, &led.ScreenBoard{}, b)
	assert.Len(t, b.Lights(), led.Count)
}

func TestInitCoreRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Animation.Mode = "diagonal"
	b := led.NewSim()
	_, err := InitCore(cfg, b, nil)
	assert.ErrorIs(t, err, render.ErrUnsupportedMode)
	assert.Zero(t, b.Writes(0))
}

func TestRunSweep(t *testing.T) {
	core, b, clk := simCore(t, nil)
	require.NoError(t, core.Run(context.Background()))
	assert.Equal(t, 11, clk.Sleeps())
	assertDark(t, b)
	require.NoError(t, core.Close())
	assert.True(t, b.Closed())
}

func TestRunExtravaganza(t *testing.T) {
	core, b, clk := simCore(t, func(c *config.Config) { c.Show = "extravaganza" })
	require.NoError(t, core.Run(context.Background()))
	// 32s of animation at 30fps plus the dark beat
	assert.Greater(t, clk.Sleeps(), 32*30)
	assertDark(t, b)
	assert.Equal(t, sequence.Idle, core.Seq.State())
}

func TestRunUnknownShow(t *testing.T) {
	core, b, _ := simCore(t, func(c *config.Config) { c.Show = "fireworks" })
	assert.ErrorIs(t, core.Run(context.Background()), ErrUnknownShow)
	assert.Zero(t, b.Flushes())
}

func TestRunSelfTest(t *testing.T) {
	core, b, clk := simCore(t, func(c *config.Config) {
		c.Show = "selftest"
		c.SelfTest = "arm_sweep"
	})
	require.NoError(t, core.Run(context.Background()))
	assert.Equal(t, 6, clk.Sleeps())
	assert.Equal(t, 7, b.Flushes())
	assertDark(t, b)
}

func TestRunCountdownUntilCancelled(t *testing.T) {
	core, b, clk := simCore(t, func(c *config.Config) { c.Show = "countdown" })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk.OnSleep = func(n int) {
		if n == 40 {
			cancel()
		}
	}
	require.NoError(t, core.Run(ctx))
	assertDark(t, b)
}

func TestRunProgramFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	prog := sequence.Program{Clips: []sequence.Clip{
		{Name: "spin", Mode: render.ModeAngular, DurationS: 0.5, Speed: 0.3, Fuzziness: 0.5},
		{Name: "ring", Mode: render.ModeRadial, DurationS: 0.5, Speed: 0.1, OffAfterS: 1},
	}}
	require.NoError(t, sequence.SaveProgram(path, prog))

	core, b, clk := simCore(t, func(c *config.Config) { c.Program = path })
	require.NoError(t, core.Run(context.Background()))
	// 6 frames per clip and the pause
	assert.Equal(t, 13, clk.Sleeps())
	assertDark(t, b)
}
