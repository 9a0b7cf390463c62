package led

import "errors"

// Count is the number of lights on the star: one center plus five arms of five.
const Count = 26

var (
	ErrClosed     = errors.New("board closed")
	ErrUnknownPin = errors.New("unknown gpio pin")
	ErrPinCount   = errors.New("wrong number of pins")
)

// Light is a single addressable output.
type Light interface {
	// SetBrightness sets the level in [0,1]; values outside are clamped.
	SetBrightness(v float64) error
	Off() error
	// Pulse starts a breathing effect in the background. The next
	// SetBrightness or Off stops it.
	Pulse() error
}

// Board is the ordered collection of lights in hardware order: index 0 is
// the center, 1..25 are the outer lights.
type Board interface {
	Lights() []Light
	Off() error
	// Close turns everything off and releases the hardware.
	Close() error
}

// Flusher is implemented by boards that latch a whole frame at once.
// SetBrightness only stages a level until Flush.
type Flusher interface {
	Flush() error
}

// Flush latches b if it buffers frames.
func Flush(b Board) error {
	if f, ok := b.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
