// services/hal/board.go
package hal

import (
	"errors"
	"io"
	"sync/atomic"
	"time"

	"buttonblink-go/errcode"
	"buttonblink-go/services/blink"
	"buttonblink-go/services/hal/internal/gpioirq"
	"buttonblink-go/services/hal/internal/halcore"
	"buttonblink-go/services/hal/internal/platform"
	"buttonblink-go/services/power"
	"buttonblink-go/types"
	"buttonblink-go/x/logx"
)

// -----------------------------------------------------------------------------
// Factories
// -----------------------------------------------------------------------------

// Factories injects the platform pieces. Tests substitute host fakes.
type Factories struct {
	Pins   halcore.PinFactory
	IRQ    halcore.IRQController
	Pixels halcore.PixelFactory
	Sleep  halcore.SleepPrimitive
}

// DefaultFactories returns the pieces for the build target.
func DefaultFactories() Factories {
	return Factories{
		Pins:   platform.DefaultPinFactory(),
		IRQ:    platform.DefaultIRQController(),
		Pixels: platform.DefaultPixelFactory(),
		Sleep:  platform.DefaultSleepPrimitive(),
	}
}

// -----------------------------------------------------------------------------
// Board
// -----------------------------------------------------------------------------

// Board is the initialised hardware: LED sink, armed switch interrupt, flag
// and deep-sleep sequencing.
type Board struct {
	cfg   types.BoardConfig
	led   halcore.LED
	flag  *blink.Flag
	irq   *gpioirq.Worker
	power *power.Manager
	armed atomic.Bool
}

// Init brings the board up: LED sink, switch input with its interrupt at the
// configured priority, and the deep-sleep callbacks.
func Init(cfg types.BoardConfig, f Factories) (*Board, error) {
	if cfg.LED.Pin == cfg.Button.Pin {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "hal.Init", Msg: "led and button share a pin"}
	}
	if cfg.Button.Priority > 3 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "hal.Init", Msg: "irq priority"}
	}

	led, err := newLED(cfg.LED, f)
	if err != nil {
		return nil, err
	}

	gp, ok := f.Pins.ByNumber(cfg.Button.Pin)
	if !ok {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "hal.Init", Msg: "button"}
	}
	btn, ok := gp.(halcore.IRQPin)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "hal.Init", Msg: "button pin has no irq"}
	}

	b := &Board{
		cfg:   cfg,
		led:   led,
		flag:  &blink.Flag{},
		power: power.NewManager(f.Sleep),
	}
	b.irq = gpioirq.New(f.IRQ, b.flag, f.Sleep)
	debounce := time.Duration(cfg.Button.DebounceMs) * time.Millisecond
	if err := b.irq.Register(btn, toPull(cfg.Button.Pull), toEdge(cfg.Button.Edge), cfg.Button.Priority, debounce); err != nil {
		return nil, err
	}
	b.armed.Store(true)

	b.power.Register(power.Callback{
		Name:  "switch",
		Order: 0,
		Before: func() error {
			if !b.armed.Load() {
				return errcode.IRQSetup // no wake source
			}
			return nil
		},
	})
	var wasOn bool
	b.power.Register(power.Callback{
		Name:  "led",
		Order: 1,
		Before: func() error {
			wasOn = b.led.On()
			b.led.Set(false)
			return nil
		},
		After: func() { b.led.Set(wasOn) },
	})

	logx.Info("board ready",
		logx.Str("name", cfg.Name),
		logx.Str("led", string(cfg.LED.Kind)),
		logx.Int("led_pin", int64(cfg.LED.Pin)),
		logx.Int("button_pin", int64(cfg.Button.Pin)),
		logx.Str("edge", halcore.EdgeToString(toEdge(cfg.Button.Edge))),
		logx.Uint("prio", uint64(cfg.Button.Priority)))
	return b, nil
}

func (b *Board) LED() halcore.LED          { return b.led }
func (b *Board) Flag() *blink.Flag         { return b.flag }
func (b *Board) Power() *power.Manager     { return b.power }
func (b *Board) Edges() uint32             { return b.irq.Edges() }
func (b *Board) Ignored() uint32           { return b.irq.Ignored() }
func (b *Board) Config() types.BoardConfig { return b.cfg }

// Close disarms the switch interrupt and turns the LED off.
func (b *Board) Close() error {
	b.armed.Store(false)
	err := b.irq.Unregister()
	b.led.Set(false)
	return err
}

// -----------------------------------------------------------------------------
// Assert and halt
// -----------------------------------------------------------------------------

// Halt logs err and stops the firmware. It does not return on MCU builds.
func Halt(err error) {
	logx.Error("halt", logx.Str("code", string(errcode.Of(err))), logx.Err(err))
	platform.Halt(string(errcode.Of(err)))
}

// Must halts on a non-nil err.
func Must(err error) {
	if err != nil {
		Halt(err)
	}
}

// Console opens the configured console writer. On failure USB stdout is
// still returned alongside the error.
func Console(c types.ConsoleConfig) (io.Writer, error) {
	w, err := platform.ConsoleWriter(c.UART, c.TX, c.RX, c.Baud)
	if err != nil && !errors.Is(err, errcode.Unsupported) {
		err = errcode.Wrap(errcode.BoardInit, "hal.Console", err)
	}
	return w, err
}

// -----------------------------------------------------------------------------
// Mapping
// -----------------------------------------------------------------------------

func toPull(p types.Pull) halcore.Pull {
	switch p {
	case types.PullUp:
		return halcore.PullUp
	case types.PullDown:
		return halcore.PullDown
	default:
		return halcore.PullNone
	}
}

func toEdge(e types.Edge) halcore.Edge {
	switch e {
	case types.EdgeRising:
		return halcore.EdgeRising
	case types.EdgeFalling:
		return halcore.EdgeFalling
	case types.EdgeBoth:
		return halcore.EdgeBoth
	default:
		return halcore.EdgeNone
	}
}
