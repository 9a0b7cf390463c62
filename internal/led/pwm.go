package led

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// DefaultPWMFreq matches the software PWM rate of the star HAT.
const DefaultPWMFreq = 100 * physic.Hertz

// PWMBoard drives one GPIO per light. Full on and full off use plain levels,
// anything in between is a PWM duty cycle.
type PWMBoard struct {
	lights []*pwmLight
	pulse  PulseTiming

	mu     sync.Mutex
	closed bool
}

type pwmLight struct {
	board *PWMBoard
	pin   gpio.PinOut
	freq  physic.Frequency

	mu    sync.Mutex
	level float64
	pulse pulser
}

func NewPWMBoard(pins []gpio.PinOut, freq physic.Frequency) (*PWMBoard, error) {
	if len(pins) != Count {
		return nil, fmt.Errorf("pwm board: %w: need %d, got %d", ErrPinCount, Count, len(pins))
	}
	if freq <= 0 {
		freq = DefaultPWMFreq
	}
	b := &PWMBoard{pulse: DefaultPulse}
	for _, p := range pins {
		b.lights = append(b.lights, &pwmLight{board: b, pin: p, freq: freq})
	}
	return b, nil
}

func (b *PWMBoard) Lights() []Light {
	out := make([]Light, len(b.lights))
	for i, l := range b.lights {
		out[i] = l
	}
	return out
}

func (b *PWMBoard) Off() error {
	var errs []error
	for _, l := range b.lights {
		errs = append(errs, l.Off())
	}
	return errors.Join(errs...)
}

func (b *PWMBoard) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	errs := []error{b.Off()}
	for _, l := range b.lights {
		errs = append(errs, l.pin.Halt())
	}
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return errors.Join(errs...)
}

func (b *PWMBoard) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (l *pwmLight) SetBrightness(v float64) error {
	l.pulse.halt()
	return l.write(v)
}

func (l *pwmLight) Off() error { return l.SetBrightness(0) }

func (l *pwmLight) Pulse() error {
	if l.board.isClosed() {
		return ErrClosed
	}
	l.pulse.start(l.write, l.board.pulse)
	return nil
}

func (l *pwmLight) write(v float64) error {
	if l.board.isClosed() {
		return ErrClosed
	}
	v = Clamp01(v)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = v
	switch {
	case v <= 0:
		return l.pin.Out(gpio.Low)
	case v >= 1:
		return l.pin.Out(gpio.High)
	}
	return l.pin.PWM(gpio.Duty(math.Round(v*float64(gpio.DutyMax))), l.freq)
}
