// services/hal/internal/gpioirq/irq_worker_test.go

package gpioirq

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"buttonblink-go/errcode"
	"buttonblink-go/services/hal/internal/halcore"
)

// fakeIRQPin implements halcore.IRQPin with minimal behaviour for tests.
type fakeIRQPin struct {
	mu      sync.Mutex
	level   bool
	pull    halcore.Pull
	edge    halcore.Edge
	handler func()
	acks    int
	setErr  error
}

func (p *fakeIRQPin) ConfigureInput(pl halcore.Pull) error { p.pull = pl; return nil }
func (p *fakeIRQPin) ConfigureOutput(initial bool) error  { p.level = initial; return nil }
func (p *fakeIRQPin) Set(b bool)                          { p.mu.Lock(); p.level = b; p.mu.Unlock() }
func (p *fakeIRQPin) Get() bool                           { p.mu.Lock(); defer p.mu.Unlock(); return p.level }
func (p *fakeIRQPin) Toggle()                             { p.mu.Lock(); p.level = !p.level; p.mu.Unlock() }
func (p *fakeIRQPin) Number() int                         { return 15 }
func (p *fakeIRQPin) AckIRQ()                             { p.acks++ }
func (p *fakeIRQPin) SetIRQ(e halcore.Edge, h func()) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.edge, p.handler = e, h
	return nil
}
func (p *fakeIRQPin) ClearIRQ() error { p.handler = nil; return nil }
func (p *fakeIRQPin) fire() {
	if p.handler != nil {
		p.handler()
	}
}

type fakeCtrl struct {
	prio    uint8
	cleared int
	enabled bool
	prioErr error
}

func (c *fakeCtrl) SetPriority(p uint8) error { c.prio = p; return c.prioErr }
func (c *fakeCtrl) ClearPending()             { c.cleared++ }
func (c *fakeCtrl) Enable()                   { c.enabled = true }

type countFlag struct{ n atomic.Uint32 }

func (f *countFlag) Set() { f.n.Add(1) }

type countWaker struct{ n atomic.Uint32 }

func (w *countWaker) Wake() { w.n.Add(1) }

func TestRegisterConfiguresSwitch(t *testing.T) {
	ctrl := &fakeCtrl{}
	w := New(ctrl, &countFlag{}, &countWaker{})
	pin := &fakeIRQPin{}

	if err := w.Register(pin, halcore.PullUp, halcore.EdgeFalling, 3, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if pin.pull != halcore.PullUp || pin.edge != halcore.EdgeFalling {
		t.Fatalf("pin not configured: pull=%d edge=%d", pin.pull, pin.edge)
	}
	if ctrl.prio != 3 || !ctrl.enabled || ctrl.cleared != 1 {
		t.Fatalf("controller not set up: %+v", ctrl)
	}
	if err := w.Register(pin, halcore.PullUp, halcore.EdgeFalling, 3, 0); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("second Register: got %v, want pin_in_use", err)
	}
}

func TestHandlerClearsAndSetsFlag(t *testing.T) {
	ctrl := &fakeCtrl{}
	flag := &countFlag{}
	waker := &countWaker{}
	w := New(ctrl, flag, waker)
	pin := &fakeIRQPin{}
	if err := w.Register(pin, halcore.PullUp, halcore.EdgeFalling, 3, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pin.fire()
	pin.fire()

	if pin.acks != 2 {
		t.Fatalf("pin acks = %d, want 2", pin.acks)
	}
	if ctrl.cleared != 3 { // one at register, one per interrupt
		t.Fatalf("pending clears = %d, want 3", ctrl.cleared)
	}
	if flag.n.Load() != 2 || waker.n.Load() != 2 || w.Edges() != 2 {
		t.Fatalf("flag=%d wake=%d edges=%d", flag.n.Load(), waker.n.Load(), w.Edges())
	}
}

func TestDebounce(t *testing.T) {
	flag := &countFlag{}
	w := New(&fakeCtrl{}, flag, &countWaker{})
	var now time.Duration = time.Second
	w.now = func() time.Duration { return now }

	pin := &fakeIRQPin{}
	if err := w.Register(pin, halcore.PullUp, halcore.EdgeFalling, 3, 20*time.Millisecond); err != nil {
		t.Fatalf("Register: %v", err)
	}

	pin.fire()
	now += 5 * time.Millisecond
	pin.fire() // bounce
	now += 30 * time.Millisecond
	pin.fire()

	if flag.n.Load() != 2 || w.Ignored() != 1 {
		t.Fatalf("flag=%d ignored=%d, want 2/1", flag.n.Load(), w.Ignored())
	}
}

func TestRegisterErrors(t *testing.T) {
	w := New(&fakeCtrl{}, &countFlag{}, &countWaker{})
	if err := w.Register(&fakeIRQPin{}, halcore.PullUp, halcore.EdgeNone, 3, 0); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("EdgeNone: got %v", err)
	}

	cause := errors.New("no vector")
	err := w.Register(&fakeIRQPin{setErr: cause}, halcore.PullUp, halcore.EdgeFalling, 3, 0)
	if errcode.Of(err) != errcode.IRQSetup || !errors.Is(err, cause) {
		t.Fatalf("SetIRQ failure: got %v", err)
	}

	w2 := New(&fakeCtrl{prioErr: errcode.InvalidParams}, &countFlag{}, &countWaker{})
	if err := w2.Register(&fakeIRQPin{}, halcore.PullUp, halcore.EdgeFalling, 9, 0); errcode.Of(err) != errcode.IRQSetup {
		t.Fatalf("priority failure: got %v", err)
	}
}

func TestUnregister(t *testing.T) {
	flag := &countFlag{}
	w := New(&fakeCtrl{}, flag, &countWaker{})
	pin := &fakeIRQPin{}
	if err := w.Register(pin, halcore.PullUp, halcore.EdgeFalling, 3, 0); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := w.Unregister(); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	pin.fire()
	if flag.n.Load() != 0 {
		t.Fatal("handler still attached")
	}
	if err := w.Unregister(); err != nil {
		t.Fatalf("second Unregister: %v", err)
	}
}
