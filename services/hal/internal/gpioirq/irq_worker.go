// services/hal/internal/gpioirq/irq_worker.go
package gpioirq

import (
	"sync"
	"sync/atomic"
	"time"

	"buttonblink-go/errcode"
	"buttonblink-go/services/hal/internal/halcore"
)

// Setter receives the button flag from interrupt context.
type Setter interface{ Set() }

// Waker is notified after the flag is set so a sleeping core resumes.
type Waker interface{ Wake() }

// acker is implemented by pins whose triggered state must be cleared by
// software inside the handler.
type acker interface{ AckIRQ() }

var epoch = time.Now()

// Worker owns the switch interrupt: pin setup, controller priority and the
// handler that raises the flag.
type Worker struct {
	ctrl  halcore.IRQController
	flag  Setter
	waker Waker
	now   func() time.Duration

	mu  sync.Mutex
	pin halcore.IRQPin

	debounce time.Duration
	last     atomic.Int64 // monotonic ns of last accepted edge, 0 = none
	edges    atomic.Uint32
	ignored  atomic.Uint32
}

func New(ctrl halcore.IRQController, flag Setter, waker Waker) *Worker {
	return &Worker{
		ctrl:  ctrl,
		flag:  flag,
		waker: waker,
		now:   func() time.Duration { return time.Since(epoch) },
	}
}

// Register configures pin as the switch input and attaches the handler at
// the given controller priority. Only one pin can be registered at a time.
func (w *Worker) Register(pin halcore.IRQPin, pull halcore.Pull, edge halcore.Edge, prio uint8, debounce time.Duration) error {
	if edge == halcore.EdgeNone {
		return &errcode.E{C: errcode.InvalidParams, Op: "gpioirq.Register", Msg: "edge none"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pin != nil {
		return &errcode.E{C: errcode.PinInUse, Op: "gpioirq.Register"}
	}

	if err := pin.ConfigureInput(pull); err != nil {
		return errcode.Wrap(errcode.IRQSetup, "gpioirq.ConfigureInput", err)
	}
	if err := w.ctrl.SetPriority(prio); err != nil {
		return errcode.Wrap(errcode.IRQSetup, "gpioirq.SetPriority", err)
	}
	w.debounce = debounce
	w.last.Store(0)
	if err := pin.SetIRQ(edge, func() { w.handle(pin) }); err != nil {
		return errcode.Wrap(errcode.IRQSetup, "gpioirq.SetIRQ", err)
	}

	// Drop anything latched while the pin was being configured, then enable.
	w.ctrl.ClearPending()
	w.ctrl.Enable()
	w.pin = pin
	return nil
}

// Unregister detaches the handler. It is safe to call more than once.
func (w *Worker) Unregister() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pin == nil {
		return nil
	}
	err := w.pin.ClearIRQ()
	w.pin = nil
	return err
}

// handle runs in interrupt context.
func (w *Worker) handle(pin halcore.IRQPin) {
	if a, ok := pin.(acker); ok {
		a.AckIRQ()
	}
	w.ctrl.ClearPending()

	if w.debounce > 0 {
		now := int64(w.now())
		last := w.last.Load()
		if last != 0 && time.Duration(now-last) < w.debounce {
			w.ignored.Add(1)
			return
		}
		w.last.Store(now)
	}

	w.edges.Add(1)
	w.flag.Set()
	w.waker.Wake()
}

// Edges returns the number of accepted switch interrupts.
func (w *Worker) Edges() uint32 { return w.edges.Load() }

// Ignored returns the number of edges rejected by the debounce window.
func (w *Worker) Ignored() uint32 { return w.ignored.Load() }
