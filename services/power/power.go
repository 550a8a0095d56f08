// Package power sequences deep-sleep entry: registered callbacks prepare
// peripherals before the core stops and restore them after it wakes.
package power

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"buttonblink-go/errcode"
)

// Primitive enters the platform sleep state and returns on wake.
type Primitive interface {
	Enter(ctx context.Context) error
}

// Callback is notified around each deep-sleep entry. Before runs in
// ascending Order and may refuse the transition; After runs in descending
// Order for every callback whose Before succeeded.
type Callback struct {
	Name   string
	Order  int
	Before func() error
	After  func()
}

// Manager owns the callback list and the sleep primitive.
type Manager struct {
	prim Primitive

	mu  sync.Mutex
	cbs []Callback

	entries atomic.Uint32
	refused atomic.Uint32
}

func NewManager(p Primitive) *Manager { return &Manager{prim: p} }

// Register adds cb. Callbacks with equal Order keep registration order.
func (m *Manager) Register(cb Callback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cbs = append(m.cbs, cb)
	sort.SliceStable(m.cbs, func(i, j int) bool { return m.cbs[i].Order < m.cbs[j].Order })
}

// DeepSleep runs the Before chain, sleeps, then runs the After chain.
// If a Before fails the core does not sleep; callbacks already prepared are
// unwound and the error is returned as errcode.SleepRefused.
func (m *Manager) DeepSleep(ctx context.Context) error {
	m.mu.Lock()
	cbs := append([]Callback(nil), m.cbs...)
	m.mu.Unlock()

	done := 0
	for _, cb := range cbs {
		if cb.Before != nil {
			if err := cb.Before(); err != nil {
				unwind(cbs[:done])
				m.refused.Add(1)
				return &errcode.E{C: errcode.SleepRefused, Op: "power.DeepSleep", Msg: cb.Name, Err: err}
			}
		}
		done++
	}

	err := m.prim.Enter(ctx)
	if err == nil {
		m.entries.Add(1)
	}
	unwind(cbs)
	return err
}

func unwind(cbs []Callback) {
	for i := len(cbs) - 1; i >= 0; i-- {
		if cbs[i].After != nil {
			cbs[i].After()
		}
	}
}

// Entries counts completed sleep/wake cycles.
func (m *Manager) Entries() uint32 { return m.entries.Load() }

// Refused counts transitions vetoed by a callback.
func (m *Manager) Refused() uint32 { return m.refused.Load() }
