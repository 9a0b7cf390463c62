package led

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// SimBoard keeps levels in memory. Pulse only flags the light.
type SimBoard struct {
	mu       sync.Mutex
	lights   []*SimLight
	offs     int
	flushes  int
	closed   bool
	logEvery int
}

type SimLight struct {
	board   *SimBoard
	level   float64
	writes  int
	pulsing bool
}

func NewSim() *SimBoard {
	b := &SimBoard{}
	for i := 0; i < Count; i++ {
		b.lights = append(b.lights, &SimLight{board: b})
	}
	return b
}

// LogEvery makes Flush log the frame at debug level every n flushes.
func (b *SimBoard) LogEvery(n int) *SimBoard {
	b.logEvery = n
	return b
}

func (b *SimBoard) Lights() []Light {
	out := make([]Light, len(b.lights))
	for i, l := range b.lights {
		out[i] = l
	}
	return out
}

// Levels returns the current level of every light in board order.
func (b *SimBoard) Levels() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float64, len(b.lights))
	for i, l := range b.lights {
		out[i] = l.level
	}
	return out
}

// Pulsing returns the board indices of lights that are breathing.
func (b *SimBoard) Pulsing() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []int
	for i, l := range b.lights {
		if l.pulsing {
			out = append(out, i)
		}
	}
	return out
}

func (b *SimBoard) Writes(i int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lights[i].writes
}

func (b *SimBoard) OffCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offs
}

func (b *SimBoard) Flushes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushes
}

func (b *SimBoard) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *SimBoard) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.flushes++
	if b.logEvery > 0 && b.flushes%b.logEvery == 0 {
		lv := make([]float64, len(b.lights))
		var sum float64
		for i, l := range b.lights {
			lv[i] = l.level
			sum += l.level
		}
		log.Debug().
			Int("frame", b.flushes).
			Float64("avg", sum/float64(len(lv))).
			Floats64("levels", lv).
			Msg("sim frame")
	}
	return nil
}

func (b *SimBoard) Off() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.offLocked()
	return nil
}

func (b *SimBoard) offLocked() {
	b.offs++
	for _, l := range b.lights {
		l.level = 0
		l.pulsing = false
	}
}

func (b *SimBoard) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.offLocked()
	b.closed = true
	return nil
}

func (l *SimLight) SetBrightness(v float64) error {
	l.board.mu.Lock()
	defer l.board.mu.Unlock()
	if l.board.closed {
		return ErrClosed
	}
	l.level = Clamp01(v)
	l.pulsing = false
	l.writes++
	return nil
}

func (l *SimLight) Off() error { return l.SetBrightness(0) }

func (l *SimLight) Pulse() error {
	l.board.mu.Lock()
	defer l.board.mu.Unlock()
	if l.board.closed {
		return ErrClosed
	}
	l.pulsing = true
	return nil
}
