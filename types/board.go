package types

// Pull selects the input bias for the button pin.
type Pull string

const (
	PullNone Pull = "none"
	PullUp   Pull = "up"
	PullDown Pull = "down"
)

// Edge selects which button transition raises the interrupt.
type Edge string

const (
	EdgeRising  Edge = "rising"
	EdgeFalling Edge = "falling"
	EdgeBoth    Edge = "both"
)

// LEDKind selects the LED sink.
type LEDKind string

const (
	LEDGPIO   LEDKind = "gpio"   // plain LED on a GPIO, toggled by inverting the pin
	LEDWS2812 LEDKind = "ws2812" // single addressable pixel
)

// RGB is a pixel colour for ws2812 sinks.
type RGB struct{ R, G, B uint8 }

// ButtonConfig describes the user switch wiring and its interrupt.
type ButtonConfig struct {
	Pin        int
	Pull       Pull
	Edge       Edge
	DebounceMs uint16 // 0 = accept every edge
	Priority   uint8  // NVIC priority, 0 (highest) .. 3
}

// LEDConfig describes the LED sink.
type LEDConfig struct {
	Pin   int
	Kind  LEDKind
	Color RGB // ws2812 only
}

// BlinkConfig carries the blink/sleep cycle constants.
type BlinkConfig struct {
	LongMs  uint32 // initial delay
	ShortMs uint32
	Count   int // blinks per burst
}

// ConsoleConfig selects where log lines go in addition to USB stdout.
type ConsoleConfig struct {
	UART        string // "", "uart0" or "uart1"
	TX, RX      int
	Baud        uint32
	HeartbeatMs uint32 // 0 disables the heartbeat line
}

// BoardConfig is the full compile-time setup of one board.
type BoardConfig struct {
	Name    string
	LED     LEDConfig
	Button  ButtonConfig
	Blink   BlinkConfig
	Console ConsoleConfig
}
