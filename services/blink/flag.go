package blink

import "sync/atomic"

// Flag is the single button flag shared between the switch interrupt and the
// main loop. The interrupt only sets it; the loop only clears it.
type Flag struct {
	v    atomic.Uint32
	sets atomic.Uint32
}

// Set raises the flag. Safe from interrupt context: no locks, no allocation.
func (f *Flag) Set() {
	f.v.Store(1)
	f.sets.Add(1)
}

// TakeAndClear reports whether the flag was raised and lowers it in one step.
func (f *Flag) TakeAndClear() bool { return f.v.Swap(0) == 1 }

// Sets returns how many times Set has been called.
func (f *Flag) Sets() uint32 { return f.sets.Load() }
