// services/hal/internal/halcore/types.go
package halcore

import "context"

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQPin extends GPIOPin with interrupts.
//
// Handlers run in interrupt context on MCU builds: they must not block,
// allocate or take locks that the main loop may hold.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// IRQController is the interrupt controller line serving GPIO pins.
type IRQController interface {
	// SetPriority sets the line priority (0 highest .. 3 lowest).
	SetPriority(prio uint8) error
	// ClearPending drops a latched request so it does not re-enter.
	ClearPending()
	Enable()
}

// ---- LED ----

// LED is anything that can be toggled on and off.
type LED interface {
	Set(on bool)
	Toggle()
	On() bool
}

// PixelFactory builds a single addressable pixel on a data pin.
type PixelFactory interface {
	Pixel(pin int, r, g, b uint8) (LED, error)
}

// ---- Power ----

// SleepPrimitive enters the platform's deep-sleep state and returns once a
// wake event has occurred. Wake is called from interrupt context.
type SleepPrimitive interface {
	Enter(ctx context.Context) error
	Wake()
}

// Util
func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}
