// services/hal/led.go
package hal

import (
	"buttonblink-go/errcode"
	"buttonblink-go/services/hal/internal/halcore"
	"buttonblink-go/types"
)

func newLED(c types.LEDConfig, f Factories) (halcore.LED, error) {
	switch c.Kind {
	case types.LEDWS2812:
		px, err := f.Pixels.Pixel(c.Pin, c.Color.R, c.Color.G, c.Color.B)
		if err != nil {
			return nil, errcode.Wrap(errcode.LEDSetup, "hal.newLED", err)
		}
		return px, nil
	case types.LEDGPIO, "":
		p, ok := f.Pins.ByNumber(c.Pin)
		if !ok {
			return nil, &errcode.E{C: errcode.UnknownPin, Op: "hal.newLED"}
		}
		if err := p.ConfigureOutput(false); err != nil {
			return nil, errcode.Wrap(errcode.LEDSetup, "hal.newLED", err)
		}
		return gpioLED{p}, nil
	default:
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "hal.newLED", Msg: string(c.Kind)}
	}
}

// gpioLED drives a plain LED; Toggle inverts the pin.
type gpioLED struct{ pin halcore.GPIOPin }

func (l gpioLED) Set(on bool) { l.pin.Set(on) }
func (l gpioLED) Toggle()     { l.pin.Toggle() }
func (l gpioLED) On() bool    { return l.pin.Get() }
