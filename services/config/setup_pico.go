//go:build !rp2040_zero

package config

import "buttonblink-go/types"

// Pico / Pico 2: onboard LED on GP25, user switch between GP15 and GND.
var selected = types.BoardConfig{
	Name: "pico",
	LED:  types.LEDConfig{Pin: 25, Kind: types.LEDGPIO},
	Button: types.ButtonConfig{
		Pin:      15,
		Pull:     types.PullUp,
		Edge:     types.EdgeFalling,
		Priority: SwitchIRQPrio,
	},
	Blink: types.BlinkConfig{LongMs: DelayLongMs, ShortMs: DelayShortMs, Count: BlinkCount},
	Console: types.ConsoleConfig{
		UART: "uart0",
		TX:   0,
		RX:   1,
		Baud: 115200,
	},
}
