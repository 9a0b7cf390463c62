package render

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-starlight/internal/clock"
	"github.com/coreman2200/funtimes-starlight/internal/layout"
	"github.com/coreman2200/funtimes-starlight/internal/led"
)

func newTestEngine(t *testing.T) (*Engine, *led.SimBoard, *clock.Fake) {
	t.Helper()
	b := led.NewSim()
	clk := clock.NewFake(time.Date(2020, 12, 24, 12, 0, 0, 0, time.UTC))
	e, err := NewEngine(b, layout.DefaultGeometry(1, false), nil, clk)
	require.NoError(t, err)
	return e, b, clk
}

func baseSettings() Settings {
	return Settings{
		Mode:           ModeX,
		MaxBrightness:  0.1,
		Fuzziness:      0.01,
		Boomerang:      true,
		Speed:          0.2,
		FPS:            10,
		CenterMinValue: 0.05,
		StarSize:       1,
	}
}

func assertAllOff(t *testing.T, b *led.SimBoard) {
	t.Helper()
	for i, v := range b.Levels() {
		assert.Equal(t, 0.0, v, "light %d", i)
	}
}

func TestAnimateUnsupportedModeBeforeAnyWrite(t *testing.T) {
	e, b, clk := newTestEngine(t)
	s := baseSettings()
	s.Mode = "diagonal"

	err := e.Animate(context.Background(), s)
	require.ErrorIs(t, err, ErrUnsupportedMode)
	assert.Contains(t, err.Error(), "diagonal")
	for i := 0; i < led.Count; i++ {
		assert.Zero(t, b.Writes(i))
	}
	assert.Zero(t, b.OffCount())
	assert.Zero(t, clk.Sleeps())
}

func TestAnimateInvalidFPS(t *testing.T) {
	e, b, _ := newTestEngine(t)
	s := baseSettings()
	s.FPS = 0
	require.ErrorIs(t, e.Animate(context.Background(), s), ErrInvalidFPS)
	assert.Zero(t, b.Writes(0))
}

func TestAnimateStopsAtDeadline(t *testing.T) {
	e, b, clk := newTestEngine(t)
	s := baseSettings()
	s.Duration = time.Second

	require.NoError(t, e.Animate(context.Background(), s))
	// frames at 0.0 .. 1.0s inclusive, the one at 1.1s is past the deadline
	assert.Equal(t, 11, e.Last.Frames)
	assert.Equal(t, 11, clk.Sleeps())
	assert.Equal(t, 1, b.OffCount())
	assertAllOff(t, b)
}

func TestAnimateCancelTurnsOff(t *testing.T) {
	e, b, clk := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk.OnSleep = func(n int) {
		if n == 3 {
			cancel()
		}
	}
	s := baseSettings()
	s.Mode = ModeAngular

	require.NoError(t, e.Animate(ctx, s))
	assert.Equal(t, 3, e.Last.Frames)
	assert.Equal(t, 1, b.OffCount())
	assertAllOff(t, b)
	assert.False(t, b.Closed())
}

func TestAnimateBoomerangWithinBounds(t *testing.T) {
	for _, m := range Modes {
		t.Run(string(m), func(t *testing.T) {
			e, _, clk := newTestEngine(t)
			s := baseSettings()
			s.Mode = m
			s.Speed = 0.45
			s.Duration = 20 * time.Second
			rr, ok := e.Reg.Get(m)
			require.True(t, ok)
			lo, hi := rr.Bounds(1)
			clk.OnSleep = func(int) {
				assert.GreaterOrEqual(t, e.Last.Sweep, lo-s.Speed)
				assert.LessOrEqual(t, e.Last.Sweep, hi+s.Speed)
			}
			require.NoError(t, e.Animate(context.Background(), s))
		})
	}
}

func TestAnimateWrapsWithoutBoomerang(t *testing.T) {
	e, _, clk := newTestEngine(t)
	s := baseSettings()
	s.Boomerang = false
	s.Speed = 0.5
	s.Duration = 5 * time.Second
	var seen []float64
	clk.OnSleep = func(int) { seen = append(seen, e.Last.Sweep) }

	require.NoError(t, e.Animate(context.Background(), s))
	require.Greater(t, len(seen), 8)
	// -1.5 -1 -0.5 0 0.5 1 1.5, then 2 wraps to -1.5
	assert.Equal(t, 1.5, seen[6])
	assert.Equal(t, -1.5, seen[7])
	for _, v := range seen {
		assert.LessOrEqual(t, v, 1.5)
	}
}

func TestRenderOnceCeilingAndCenterFloor(t *testing.T) {
	e, _, _ := newTestEngine(t)
	s := baseSettings()
	s.MaxBrightness = 0.3

	// the top tip and the center sit on x=0
	lv, err := e.RenderOnce(s, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, lv[0], 1e-9)
	assert.InDelta(t, 0.3, lv[layout.CenterIndex], 1e-9)

	// far away every kernel is 0, only the floor is left
	lv, err = e.RenderOnce(s, 100, 0)
	require.NoError(t, err)
	for i := 0; i < layout.Outer; i++ {
		assert.Equal(t, 0.0, lv[i], "light %d", i)
	}
	assert.Equal(t, 0.05, lv[layout.CenterIndex])

	// the floor is not scaled by the ceiling
	s.MaxBrightness = 0.01
	lv, err = e.RenderOnce(s, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.05, lv[layout.CenterIndex])
	assert.InDelta(t, 0.01, lv[0], 1e-9)
}

func TestRenderOnceAngularCenterFloorIsMax(t *testing.T) {
	e, _, _ := newTestEngine(t)
	s := baseSettings()
	s.Mode = ModeAngular
	s.MaxBrightness = 1
	s.CenterMinValue = 0.2

	// the center reports angle 0, which is also where sweep 0 points
	lv, err := e.RenderOnce(s, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lv[layout.CenterIndex])

	lv, err = e.RenderOnce(s, math.Pi/2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.2, lv[layout.CenterIndex])
}

func TestRenderOnceFade(t *testing.T) {
	e, _, _ := newTestEngine(t)
	s := baseSettings()
	s.MaxBrightness = 0.4
	s.CenterMinValue = 0
	s.Fade = func(elapsed float64) float64 { return elapsed / 2 }

	lv, err := e.RenderOnce(s, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, lv[0], 1e-9)

	lv, err = e.RenderOnce(s, 0, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, lv[0], 1e-9, "fade is clamped to 1")
}

func TestWriteFrameBoardOrder(t *testing.T) {
	e, b, _ := newTestEngine(t)
	lv := make([]float64, layout.LightCount)
	lv[0] = 0.4
	lv[layout.CenterIndex] = 0.7
	require.NoError(t, e.WriteFrame(lv))

	got := b.Levels()
	assert.Equal(t, 0.7, got[0], "center is first on the board")
	assert.Equal(t, 0.4, got[1])
	assert.Equal(t, 1, b.Flushes())

	require.ErrorIs(t, e.WriteFrame(lv[:3]), layout.ErrInvalidLightCount)
}

func TestRegistry(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []Mode{ModeAngular, ModeRadial, ModeX, ModeY}, reg.List())
	_, ok := reg.Get("diagonal")
	assert.False(t, ok)

	m, err := ParseMode("radial")
	require.NoError(t, err)
	assert.Equal(t, ModeRadial, m)
	_, err = ParseMode("diagonal")
	assert.ErrorIs(t, err, ErrUnsupportedMode)
}

func TestRadialCenterUsesSyntheticRadius(t *testing.T) {
	e, _, _ := newTestEngine(t)
	require.NoError(t, e.Relayout(layout.Geometry{Outer: 1, Inner: 0.2, Center: 0.5}))
	s := baseSettings()
	s.Mode = ModeRadial
	s.MaxBrightness = 1
	s.CenterMinValue = 0

	lv, err := e.RenderOnce(s, 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lv[layout.CenterIndex])
	// tips are at radius 1
	lv, err = e.RenderOnce(s, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lv[0])
	assert.Equal(t, 0.0, lv[layout.CenterIndex])
}

func TestRenderOnceUnscaledAndSpoke(t *testing.T) {
	e, _, _ := newTestEngine(t)
	require.NoError(t, e.Relayout(layout.ShowGeometry(5, false)))
	s := baseSettings()
	s.MaxBrightness = 1
	s.CenterMinValue = 0
	s.Fuzziness = 0.7
	s.StarSize = 5

	// the center is 5 away from a sweep at x=5
	scaled, err := e.RenderOnce(s, 5, 0)
	require.NoError(t, err)
	s.Unscaled = true
	raw, err := e.RenderOnce(s, 5, 0)
	require.NoError(t, err)
	assert.Greater(t, scaled[layout.CenterIndex], raw[layout.CenterIndex])
	assert.Equal(t, 0.0, raw[layout.CenterIndex])

	// spokes ignore the radius: the top tip sits at π/2, the center reports 0
	s.Mode = ModeAngular
	s.Spoke = true
	lv, err := e.RenderOnce(s, math.Pi/2, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, lv[0])
	assert.Equal(t, 0.0, lv[layout.CenterIndex])
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		mod  func(s *Settings)
	}{
		{"negative fuzziness", func(s *Settings) { s.Fuzziness = -0.7 }},
		{"ceiling above one", func(s *Settings) { s.MaxBrightness = 1.2 }},
		{"negative ceiling", func(s *Settings) { s.MaxBrightness = -0.1 }},
		{"center above one", func(s *Settings) { s.CenterMinValue = 4 }},
		{"negative center", func(s *Settings) { s.CenterMinValue = -0.05 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, b, clk := newTestEngine(t)
			s := baseSettings()
			s.MaxBrightness = 0.3
			tt.mod(&s)

			_, err := e.RenderOnce(s, 0, 0)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.ErrorIs(t, e.Animate(context.Background(), s), ErrOutOfRange)
			for i := 0; i < led.Count; i++ {
				assert.Zero(t, b.Writes(i))
			}
			assert.Zero(t, clk.Sleeps())
		})
	}
}

func TestRenderOnceStaysUnderCeiling(t *testing.T) {
	e, _, _ := newTestEngine(t)
	s := baseSettings()
	s.MaxBrightness = 0.3
	s.CenterMinValue = 0
	s.Fuzziness = 0.7
	for _, sweep := range []float64{-1.5, -0.4, 0, 0.6, 1.5} {
		lv, err := e.RenderOnce(s, sweep, 0)
		require.NoError(t, err)
		for i, v := range lv {
			assert.LessOrEqual(t, v, 0.3, "sweep %v light %d", sweep, i)
		}
	}
}

// flakyBoard fails the first flush after arm is set.
type flakyBoard struct {
	*led.SimBoard
	arm   bool
	fails int
}

func (f *flakyBoard) Flush() error {
	if f.arm && f.fails == 0 {
		f.fails++
		return errors.New("bus error")
	}
	return f.SimBoard.Flush()
}

func TestAnimateWriteErrorTurnsOff(t *testing.T) {
	fb := &flakyBoard{SimBoard: led.NewSim()}
	clk := clock.NewFake(time.Unix(0, 0))
	e, err := NewEngine(fb, layout.DefaultGeometry(1, false), nil, clk)
	require.NoError(t, err)
	clk.OnSleep = func(n int) {
		if n == 2 {
			fb.arm = true
		}
	}
	s := baseSettings()
	s.Mode = ModeRadial

	err = e.Animate(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus error")
	assert.Equal(t, 2, e.Last.Frames)
	assert.Equal(t, 1, fb.OffCount())
	assertAllOff(t, fb.SimBoard)
}
