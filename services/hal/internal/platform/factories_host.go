// services/hal/internal/platform/factories_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"buttonblink-go/errcode"
	"buttonblink-go/services/hal/internal/halcore"
)

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements IRQPin for host-side tests. Level changes made through
// Set invoke the IRQ handler synchronously when the configured edge matches.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()
	acks    uint32
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	// Idle level follows the bias, as on hardware with nothing pressing.
	p.level = pull == halcore.PullUp
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq() // ISR-style callback
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Toggle() { p.Set(!p.Get()) }

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

// AckIRQ counts software acknowledgements made by the handler.
func (p *FakePin) AckIRQ() { atomic.AddUint32(&p.acks, 1) }

func (p *FakePin) Acks() uint32 { return atomic.LoadUint32(&p.acks) }

// IsOutput reports the configured direction.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// Press drives an active-low (pulled-up) switch through press and release.
func (p *FakePin) Press() {
	p.Set(false)
	p.Set(true)
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	case halcore.EdgeNone:
		return false
	default:
		return cfg == seen
	}
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Get exposes the underlying *FakePin for tests (e.g. to drive IRQ edges).
func (f *HostPinFactory) Get(n int) (*FakePin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pins[n]
	return p, ok
}

// DefaultPinFactory provides a host GPIO factory.
func DefaultPinFactory() halcore.PinFactory {
	return &HostPinFactory{pins: make(map[int]*FakePin)}
}

// ----------------------------- IRQ controller (host) -------------------------

// HostIRQ records what firmware asks of the interrupt controller.
type HostIRQ struct {
	mu      sync.Mutex
	prio    uint8
	enabled bool
	clears  int
}

func (c *HostIRQ) SetPriority(p uint8) error {
	if p > 3 {
		return errcode.InvalidParams
	}
	c.mu.Lock()
	c.prio = p
	c.mu.Unlock()
	return nil
}

func (c *HostIRQ) ClearPending() {
	c.mu.Lock()
	c.clears++
	c.mu.Unlock()
}

func (c *HostIRQ) Enable() {
	c.mu.Lock()
	c.enabled = true
	c.mu.Unlock()
}

// State returns priority, enabled and the number of pending clears.
func (c *HostIRQ) State() (prio uint8, enabled bool, clears int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prio, c.enabled, c.clears
}

func DefaultIRQController() halcore.IRQController { return &HostIRQ{} }

// ----------------------------- Pixel (host) ----------------------------------

// FakePixel records the last colour written.
type FakePixel struct {
	mu     sync.Mutex
	Pin    int
	color  [3]uint8
	on     bool
	writes int
}

func (p *FakePixel) Set(on bool) {
	p.mu.Lock()
	p.on = on
	p.writes++
	p.mu.Unlock()
}

func (p *FakePixel) Toggle() {
	p.mu.Lock()
	p.on = !p.on
	p.writes++
	p.mu.Unlock()
}

func (p *FakePixel) On() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.on
}

// Shown returns the colour currently on the wire (black when off).
func (p *FakePixel) Shown() [3]uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.on {
		return [3]uint8{}
	}
	return p.color
}

type hostPixels struct{}

func (hostPixels) Pixel(pin int, r, g, b uint8) (halcore.LED, error) {
	if pin < 0 || pin > 29 {
		return nil, errcode.UnknownPin
	}
	return &FakePixel{Pin: pin, color: [3]uint8{r, g, b}}, nil
}

func DefaultPixelFactory() halcore.PixelFactory { return hostPixels{} }

// ----------------------------- Sleep (host) ----------------------------------

// HostSleeper blocks in Enter until Wake is called or ctx ends.
type HostSleeper struct {
	wake    chan struct{}
	entries atomic.Uint32
}

func NewHostSleeper() *HostSleeper {
	return &HostSleeper{wake: make(chan struct{}, 1)}
}

func (s *HostSleeper) Enter(ctx context.Context) error {
	// Wakes raised before entry were already serviced.
	select {
	case <-s.wake:
	default:
	}
	s.entries.Add(1)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.wake:
		return nil
	}
}

func (s *HostSleeper) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Entries counts calls to Enter.
func (s *HostSleeper) Entries() uint32 { return s.entries.Load() }

func DefaultSleepPrimitive() halcore.SleepPrimitive { return NewHostSleeper() }

// ----------------------------- Console / halt (host) -------------------------

// ConsoleWriter returns the log destination. Host builds log to stdout.
func ConsoleWriter(_ string, _, _ int, _ uint32) (io.Writer, error) { return os.Stdout, nil }

// Halt stops the firmware. On the host it panics so callers can observe it.
func Halt(reason string) { panic("halt: " + reason) }
