package led

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/nrzled"
)

// DefaultStripFreq is the NRZ bit rate for WS2812 class pixels over SPI.
const DefaultStripFreq = 2500 * physic.KiloHertz

// StripBoard drives 26 WS281x pixels chained on one SPI bus, in board order.
// Brightness is rendered as a gray level. Levels are staged until Flush.
type StripBoard struct {
	mu     sync.Mutex
	dev    *nrzled.Dev
	port   spi.Port
	pix    []byte
	closed bool
	pulse  PulseTiming
	lights []*stripLight
}

type stripLight struct {
	board *StripBoard
	index int
	pulse pulser
}

// NewStripBoard opens an nrzled device on p. If p is also an io.Closer it is
// closed by Close.
func NewStripBoard(p spi.Port, freq physic.Frequency) (*StripBoard, error) {
	if freq <= 0 {
		freq = DefaultStripFreq
	}
	dev, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: Count, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	b := &StripBoard{
		dev:   dev,
		port:  p,
		pix:   make([]byte, Count*3),
		pulse: DefaultPulse,
	}
	for i := 0; i < Count; i++ {
		b.lights = append(b.lights, &stripLight{board: b, index: i})
	}
	return b, nil
}

func (b *StripBoard) Lights() []Light {
	out := make([]Light, len(b.lights))
	for i, l := range b.lights {
		out[i] = l
	}
	return out
}

// Pixels returns a copy of the staged RGB buffer.
func (b *StripBoard) Pixels() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.pix...)
}

func (b *StripBoard) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *StripBoard) flushLocked() error {
	if b.closed {
		return ErrClosed
	}
	if _, err := b.dev.Write(b.pix); err != nil {
		return fmt.Errorf("strip write: %w", err)
	}
	return nil
}

func (b *StripBoard) Off() error {
	b.haltPulses()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.pix {
		b.pix[i] = 0
	}
	return b.flushLocked()
}

func (b *StripBoard) Close() error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil
	}
	errs := []error{b.Off()}

	b.mu.Lock()
	b.closed = true
	errs = append(errs, b.dev.Halt())
	if c, ok := b.port.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	b.mu.Unlock()
	return errors.Join(errs...)
}

func (b *StripBoard) haltPulses() {
	for _, l := range b.lights {
		l.pulse.halt()
	}
}

func (b *StripBoard) stage(i int, v float64) error {
	g := byte(Clamp01(v)*255 + 0.5)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.pix[i*3], b.pix[i*3+1], b.pix[i*3+2] = g, g, g
	return nil
}

func (l *stripLight) SetBrightness(v float64) error {
	l.pulse.halt()
	return l.board.stage(l.index, v)
}

func (l *stripLight) Off() error { return l.SetBrightness(0) }

// Pulse writes straight through to the strip since no frame loop may be
// flushing while it breathes.
func (l *stripLight) Pulse() error {
	l.pulse.start(func(v float64) error {
		if err := l.board.stage(l.index, v); err != nil {
			return err
		}
		return l.board.Flush()
	}, l.board.pulse)
	return nil
}
