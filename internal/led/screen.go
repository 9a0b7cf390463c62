package led

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/extra/devices/screen"
)

// ScreenBoard previews the star on the terminal as a strip of gray cells, for
// machines without the HAT.
type ScreenBoard struct {
	mu     sync.Mutex
	drawer display.Drawer
	levels []float64
	closed bool
	pulse  PulseTiming
	lights []*screenLight
}

type screenLight struct {
	board *ScreenBoard
	index int
	pulse pulser
}

func NewScreenBoard() *ScreenBoard {
	return NewDrawerBoard(screen.New(Count))
}

// NewDrawerBoard renders onto any periph display.
func NewDrawerBoard(d display.Drawer) *ScreenBoard {
	b := &ScreenBoard{drawer: d, levels: make([]float64, Count), pulse: DefaultPulse}
	for i := 0; i < Count; i++ {
		b.lights = append(b.lights, &screenLight{board: b, index: i})
	}
	return b
}

func (b *ScreenBoard) Lights() []Light {
	out := make([]Light, len(b.lights))
	for i, l := range b.lights {
		out[i] = l
	}
	return out
}

func (b *ScreenBoard) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawLocked()
}

func (b *ScreenBoard) drawLocked() error {
	if b.closed {
		return ErrClosed
	}
	img := image.NewGray(image.Rect(0, 0, len(b.levels), 1))
	for i, v := range b.levels {
		img.SetGray(i, 0, color.Gray{Y: byte(v*255 + 0.5)})
	}
	return b.drawer.Draw(b.drawer.Bounds(), img, image.Point{})
}

func (b *ScreenBoard) Off() error {
	for _, l := range b.lights {
		l.pulse.halt()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.levels {
		b.levels[i] = 0
	}
	return b.drawLocked()
}

func (b *ScreenBoard) Close() error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil
	}
	errs := []error{b.Off()}
	b.mu.Lock()
	b.closed = true
	errs = append(errs, b.drawer.Halt())
	b.mu.Unlock()
	return errors.Join(errs...)
}

func (b *ScreenBoard) stage(i int, v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.levels[i] = Clamp01(v)
	return nil
}

func (l *screenLight) SetBrightness(v float64) error {
	l.pulse.halt()
	return l.board.stage(l.index, v)
}

func (l *screenLight) Off() error { return l.SetBrightness(0) }

func (l *screenLight) Pulse() error {
	l.pulse.start(func(v float64) error {
		if err := l.board.stage(l.index, v); err != nil {
			return err
		}
		return l.board.Flush()
	}, l.board.pulse)
	return nil
}
