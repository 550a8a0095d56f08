// services/hal/internal/platform/factories_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"context"
	"device/arm"
	"device/rp"
	"image/color"
	"io"
	"machine"
	"os"
	"runtime/interrupt"
	"sync/atomic"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/ws2812"

	"buttonblink-go/errcode"
	"buttonblink-go/services/hal/internal/halcore"
)

// -----------------------------------------------------------------------------
// Defaults used by hal.Init on Raspberry Pi Pico / Pico 2 (RP2 family)
// -----------------------------------------------------------------------------

// DefaultPinFactory returns a GPIO factory that maps logical numbers directly
// to machine.Pin(n). This matches Pico/Pico 2 GP numbering.
func DefaultPinFactory() halcore.PinFactory { return rp2PinFactory{} }

func DefaultIRQController() halcore.IRQController { return rp2IRQ{} }

func DefaultPixelFactory() halcore.PixelFactory { return rp2Pixels{} }

func DefaultSleepPrimitive() halcore.SleepPrimitive { return &rp2Sleeper{} }

// ---- GPIO implementation (includes IRQ support) ----

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	// Constrain to RP2 user GPIOs (GP0..GP29).
	if n < 0 || n > 29 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }

func (r *rp2Pin) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}

func (r *rp2Pin) Number() int { return r.n }

// SetIRQ attaches handler through the machine package, which acknowledges the
// pin's edge latch in IO_BANK0 before invoking the callback.
func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	case halcore.EdgeBoth:
		return machine.PinToggle
	default:
		// Zero value is a no-op/disabled.
		var zero machine.PinChange
		return zero
	}
}

// ---- NVIC line for IO_BANK0 ----

type rp2IRQ struct{}

// SetPriority writes the 2-bit Cortex-M0+ priority into the top bits of the
// IPR byte.
func (rp2IRQ) SetPriority(p uint8) error {
	if p > 3 {
		return errcode.InvalidParams
	}
	arm.SetPriority(rp.IRQ_IO_IRQ_BANK0, uint32(p)<<6)
	return nil
}

func (rp2IRQ) ClearPending() {
	arm.NVIC.ICPR[rp.IRQ_IO_IRQ_BANK0>>5].Set(1 << (rp.IRQ_IO_IRQ_BANK0 & 31))
}

func (rp2IRQ) Enable() { arm.EnableIRQ(rp.IRQ_IO_IRQ_BANK0) }

// ---- WS2812 pixel ----

type rp2Pixels struct{}

func (rp2Pixels) Pixel(pin int, r, g, b uint8) (halcore.LED, error) {
	if pin < 0 || pin > 29 {
		return nil, errcode.UnknownPin
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	px := &rp2Pixel{dev: ws2812.New(p), c: color.RGBA{R: r, G: g, B: b, A: 0xff}}
	px.Set(false)
	return px, nil
}

type rp2Pixel struct {
	dev ws2812.Device
	c   color.RGBA
	on  bool
	buf [1]color.RGBA
}

func (p *rp2Pixel) Set(on bool) {
	p.on = on
	if on {
		p.buf[0] = p.c
	} else {
		p.buf[0] = color.RGBA{}
	}
	_ = p.dev.WriteColors(p.buf[:])
}

func (p *rp2Pixel) Toggle()  { p.Set(!p.on) }
func (p *rp2Pixel) On() bool { return p.on }

// ---- Deep sleep ----

// scrSleepDeep is SCB->SCR bit 2 (architectural on ARMv6-M and ARMv8-M).
const scrSleepDeep = 1 << 2

// rp2Sleeper parks the core in deep sleep until Wake is called from the
// switch handler. Other interrupts (USB, timers) are serviced and the core
// goes back to sleep.
type rp2Sleeper struct {
	woken atomic.Bool
}

func (s *rp2Sleeper) Enter(ctx context.Context) error {
	s.woken.Store(false)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// WFI still wakes on a pending interrupt while PRIMASK is set; the
		// handler runs when interrupts are restored.
		state := interrupt.Disable()
		if s.woken.Swap(false) {
			interrupt.Restore(state)
			return nil
		}
		arm.SCB.SCR.SetBits(scrSleepDeep)
		arm.Asm("wfi")
		arm.SCB.SCR.ClearBits(scrSleepDeep)
		interrupt.Restore(state)
	}
}

func (s *rp2Sleeper) Wake() { s.woken.Store(true) }

// ---- Console / halt ----

// ConsoleWriter returns USB stdout, mirrored to a uartx UART when one is named.
func ConsoleWriter(uart string, tx, rx int, baud uint32) (io.Writer, error) {
	var hw *uartx.UART
	switch uart {
	case "":
		return os.Stdout, nil
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return os.Stdout, errcode.Unsupported
	}
	// Defaults inside uartx apply if zero.
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	}); err != nil {
		return os.Stdout, err
	}
	return io.MultiWriter(os.Stdout, hw), nil
}

// Halt parks the core forever with interrupts masked.
func Halt(_ string) {
	interrupt.Disable()
	for {
		arm.Asm("wfi")
	}
}
