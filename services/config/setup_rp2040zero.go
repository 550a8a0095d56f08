//go:build rp2040_zero

package config

import "buttonblink-go/types"

// Waveshare RP2040-Zero: WS2812 pixel on GP16, switch on GP14.
var selected = types.BoardConfig{
	Name: "rp2040_zero",
	LED: types.LEDConfig{
		Pin:   16,
		Kind:  types.LEDWS2812,
		Color: types.RGB{R: 0, G: 0x20, B: 0x08},
	},
	Button: types.ButtonConfig{
		Pin:        14,
		Pull:       types.PullUp,
		Edge:       types.EdgeFalling,
		DebounceMs: 20,
		Priority:   SwitchIRQPrio,
	},
	Blink: types.BlinkConfig{LongMs: DelayLongMs, ShortMs: DelayShortMs, Count: BlinkCount},
	Console: types.ConsoleConfig{
		UART: "uart1",
		TX:   4,
		RX:   5,
		Baud: 115200,
	},
}
