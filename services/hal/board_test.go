// services/hal/board_test.go
package hal

import (
	"context"
	"testing"
	"time"

	"buttonblink-go/bus"
	"buttonblink-go/errcode"
	"buttonblink-go/services/blink"
	"buttonblink-go/services/hal/internal/platform"
	"buttonblink-go/types"
)

type hostRig struct {
	f     Factories
	pins  *platform.HostPinFactory
	irq   *platform.HostIRQ
	sleep *platform.HostSleeper
}

func newHostRig() hostRig {
	r := hostRig{
		pins:  &platform.HostPinFactory{},
		irq:   &platform.HostIRQ{},
		sleep: platform.NewHostSleeper(),
	}
	r.f = Factories{Pins: r.pins, IRQ: r.irq, Pixels: platform.DefaultPixelFactory(), Sleep: r.sleep}
	return r
}

func picoCfg() types.BoardConfig {
	return types.BoardConfig{
		Name:   "test",
		LED:    types.LEDConfig{Pin: 25, Kind: types.LEDGPIO},
		Button: types.ButtonConfig{Pin: 15, Pull: types.PullUp, Edge: types.EdgeFalling, Priority: 3},
		Blink:  types.BlinkConfig{LongMs: 500, ShortMs: 250, Count: 4},
	}
}

func TestInitArmsSwitch(t *testing.T) {
	r := newHostRig()
	b, err := Init(picoCfg(), r.f)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer b.Close()

	led, _ := r.pins.Get(25)
	if !led.IsOutput() || led.Get() {
		t.Fatal("LED should be an output, initially off")
	}
	prio, enabled, clears := r.irq.State()
	if prio != 3 || !enabled || clears != 1 {
		t.Fatalf("irq prio=%d enabled=%v clears=%d", prio, enabled, clears)
	}

	btn, _ := r.pins.Get(15)
	btn.Press()
	if !b.Flag().TakeAndClear() {
		t.Fatal("press did not raise the flag")
	}
	if btn.Acks() != 1 || b.Edges() != 1 {
		t.Fatalf("acks=%d edges=%d", btn.Acks(), b.Edges())
	}
}

func TestInitErrors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*types.BoardConfig)
		want errcode.Code
	}{
		{"shared pin", func(c *types.BoardConfig) { c.Button.Pin = 25 }, errcode.PinInUse},
		{"unknown led", func(c *types.BoardConfig) { c.LED.Pin = 40 }, errcode.UnknownPin},
		{"unknown button", func(c *types.BoardConfig) { c.Button.Pin = 40 }, errcode.UnknownPin},
		{"priority", func(c *types.BoardConfig) { c.Button.Priority = 4 }, errcode.InvalidParams},
		{"no edge", func(c *types.BoardConfig) { c.Button.Edge = "" }, errcode.InvalidParams},
		{"bad pixel pin", func(c *types.BoardConfig) { c.LED = types.LEDConfig{Pin: 44, Kind: types.LEDWS2812} }, errcode.LEDSetup},
	}
	for _, tc := range cases {
		c := picoCfg()
		tc.mut(&c)
		_, err := Init(c, newHostRig().f)
		if got := errcode.Of(err); got != tc.want {
			t.Errorf("%s: got %q (%v), want %q", tc.name, got, err, tc.want)
		}
	}
}

func TestPixelLED(t *testing.T) {
	c := picoCfg()
	c.LED = types.LEDConfig{Pin: 16, Kind: types.LEDWS2812, Color: types.RGB{G: 0x20}}
	b, err := Init(c, newHostRig().f)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	px := b.LED().(*platform.FakePixel)
	b.LED().Toggle()
	if px.Shown() != [3]uint8{0, 0x20, 0} {
		t.Fatalf("pixel shows %v", px.Shown())
	}
	b.LED().Toggle()
	if px.Shown() != [3]uint8{} {
		t.Fatal("pixel should be dark")
	}
}

func TestSleepRefusedWhenDisarmed(t *testing.T) {
	r := newHostRig()
	b, err := Init(picoCfg(), r.f)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	_ = b.Close()
	if err := b.Power().DeepSleep(context.Background()); errcode.Of(err) != errcode.SleepRefused {
		t.Fatalf("DeepSleep after Close = %v, want sleep_refused", err)
	}
	if r.sleep.Entries() != 0 {
		t.Fatal("core slept without a wake source")
	}
}

func TestHaltPanicsOnHost(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Halt returned")
		}
	}()
	Must(errcode.BoardInit)
}

// End to end: the loop sleeps after each burst, a button press wakes it and
// the next burst runs at the other interval.
func TestButtonWakesLoopAndTogglesDelay(t *testing.T) {
	r := newHostRig()
	b, err := Init(picoCfg(), r.f)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer b.Close()

	bs := bus.NewBus(8)
	conn := bs.NewConnection("test")
	status := conn.Subscribe(blink.TopicStatus)

	loop, err := blink.NewLoop(blink.ConfigFrom(picoCfg().Blink), b.LED(), b.Power(), b.Flag(),
		blink.WithConnection(conn),
		blink.WithWait(func(context.Context, time.Duration) error { return nil }))
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	expectStatus(t, status, 500, 1)
	waitEntries(t, r.sleep, 1)

	btn, _ := r.pins.Get(15)
	btn.Press()

	expectStatus(t, status, 250, 2)
	waitEntries(t, r.sleep, 2)

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	led, _ := r.pins.Get(25)
	if led.Get() {
		t.Fatal("LED left on")
	}
}

func expectStatus(t *testing.T, sub *bus.Subscription, delayMs, bursts uint32) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		st, ok := m.Payload.(types.BlinkStatus)
		if !ok || st.DelayMs != delayMs || st.Bursts != bursts {
			t.Fatalf("status = %#v, want delay=%d bursts=%d", m.Payload, delayMs, bursts)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for burst %d", bursts)
	}
}

func waitEntries(t *testing.T, s *platform.HostSleeper, n uint32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for s.Entries() < n {
		if time.Now().After(deadline) {
			t.Fatalf("sleeper entries = %d, want %d", s.Entries(), n)
		}
		time.Sleep(time.Millisecond)
	}
}
