package led

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// DefaultPins is the wiring of the Pi star HAT in board order: the center
// first, then the outer lights A..Y.
var DefaultPins = []string{
	"GPIO2",
	"GPIO8", "GPIO7", "GPIO12", "GPIO21", "GPIO20",
	"GPIO16", "GPIO26", "GPIO19", "GPIO13", "GPIO6",
	"GPIO5", "GPIO11", "GPIO9", "GPIO10", "GPIO22",
	"GPIO27", "GPIO17", "GPIO4", "GPIO3", "GPIO14",
	"GPIO23", "GPIO18", "GPIO15", "GPIO24", "GPIO25",
}

// LookupPins resolves pin names through the periph registry.
// host.Init must have run first.
func LookupPins(names []string) ([]gpio.PinOut, error) {
	if len(names) != Count {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrPinCount, Count, len(names))
	}
	out := make([]gpio.PinOut, len(names))
	for i, n := range names {
		p := gpioreg.ByName(n)
		if p == nil {
			return nil, fmt.Errorf("pin %q: %w", n, ErrUnknownPin)
		}
		out[i] = p
	}
	return out, nil
}
