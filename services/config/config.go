// Package config holds the compile-time board setups and checks them before
// the HAL is brought up.
package config

import (
	"buttonblink-go/errcode"
	"buttonblink-go/types"
	"buttonblink-go/x/mathx"
)

// Default blink cycle and switch interrupt priority.
const (
	DelayLongMs   = 500
	DelayShortMs  = 250
	BlinkCount    = 4
	SwitchIRQPrio = 3

	maxDebounceMs = 200
	maxBlinkCount = 64
	maxPin        = 29
)

// Default returns the setup selected by build tags.
func Default() types.BoardConfig { return selected }

// Normalise clamps soft limits and fills zero values with defaults.
func Normalise(c types.BoardConfig) types.BoardConfig {
	if c.LED.Kind == "" {
		c.LED.Kind = types.LEDGPIO
	}
	if c.Button.Pull == "" {
		c.Button.Pull = types.PullUp
	}
	if c.Button.Edge == "" {
		c.Button.Edge = types.EdgeFalling
	}
	if c.Blink.LongMs == 0 {
		c.Blink.LongMs = DelayLongMs
	}
	if c.Blink.ShortMs == 0 {
		c.Blink.ShortMs = DelayShortMs
	}
	if c.Blink.Count == 0 {
		c.Blink.Count = BlinkCount
	}
	c.Blink.Count = mathx.Clamp(c.Blink.Count, 1, maxBlinkCount)
	c.Button.DebounceMs = mathx.Clamp(c.Button.DebounceMs, 0, maxDebounceMs)
	return c
}

// Validate reports the first hard error in c.
func Validate(c types.BoardConfig) error {
	bad := func(msg string) error {
		return &errcode.E{C: errcode.InvalidParams, Op: "config.Validate", Msg: msg}
	}
	if !mathx.Between(c.LED.Pin, 0, maxPin) {
		return bad("led pin")
	}
	if !mathx.Between(c.Button.Pin, 0, maxPin) {
		return bad("button pin")
	}
	if c.LED.Pin == c.Button.Pin {
		return &errcode.E{C: errcode.PinInUse, Op: "config.Validate", Msg: "led and button share a pin"}
	}
	switch c.LED.Kind {
	case types.LEDGPIO, types.LEDWS2812:
	default:
		return bad("led kind")
	}
	switch c.Button.Pull {
	case types.PullNone, types.PullUp, types.PullDown:
	default:
		return bad("button pull")
	}
	switch c.Button.Edge {
	case types.EdgeRising, types.EdgeFalling, types.EdgeBoth:
	default:
		return bad("button edge")
	}
	if c.Button.Priority > 3 {
		return bad("irq priority")
	}
	if c.Blink.LongMs == 0 || c.Blink.ShortMs == 0 {
		return bad("blink delay")
	}
	if c.Blink.Count < 1 {
		return bad("blink count")
	}
	switch c.Console.UART {
	case "", "uart0", "uart1":
	default:
		return bad("console uart")
	}
	return nil
}
