// Package blink runs the firmware's main cycle: consume the button flag,
// blink the LED at the current interval, then deep-sleep until the next
// switch interrupt.
package blink

import (
	"context"
	"time"

	"buttonblink-go/bus"
	"buttonblink-go/errcode"
	"buttonblink-go/types"
	"buttonblink-go/x/logx"
	"buttonblink-go/x/timex"
)

var (
	TopicStatus = bus.T("blink", "status")
	TopicEvent  = bus.T("blink", "event")
)

// LED is the output being blinked.
type LED interface{ Toggle() }

// Sleeper suspends the core until the next wake event.
type Sleeper interface {
	DeepSleep(ctx context.Context) error
}

type Config struct {
	Long  time.Duration // initial interval
	Short time.Duration
	Count int // blinks per burst
}

// ConfigFrom converts the board's millisecond constants.
func ConfigFrom(c types.BlinkConfig) Config {
	return Config{Long: timex.Ms(c.LongMs), Short: timex.Ms(c.ShortMs), Count: c.Count}
}

type Option func(*Loop)

// WithConnection publishes status and delay events on the bus.
func WithConnection(conn *bus.Connection) Option { return func(l *Loop) { l.conn = conn } }

// WithWait replaces the inter-toggle delay.
func WithWait(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Loop) { l.wait = fn }
}

type Loop struct {
	cfg     Config
	led     LED
	sleeper Sleeper
	flag    *Flag
	conn    *bus.Connection
	wait    func(ctx context.Context, d time.Duration) error

	delay   time.Duration
	bursts  uint32
	toggles uint32
	sleeps  uint32
}

func NewLoop(cfg Config, led LED, s Sleeper, flag *Flag, opts ...Option) (*Loop, error) {
	if cfg.Long <= 0 || cfg.Short <= 0 || cfg.Count < 1 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "blink.NewLoop"}
	}
	if led == nil || s == nil || flag == nil {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "blink.NewLoop", Msg: "nil dependency"}
	}
	l := &Loop{
		cfg:     cfg,
		led:     led,
		sleeper: s,
		flag:    flag,
		wait:    sleepCtx,
		delay:   cfg.Long,
	}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if !timex.Wait(ctx.Done(), d) {
		return ctx.Err()
	}
	return nil
}

// NextDelay returns short after long and long after anything else.
func NextDelay(cur, long, short time.Duration) time.Duration {
	if cur == long {
		return short
	}
	return long
}

func (l *Loop) Delay() time.Duration { return l.delay }

// Run repeats Cycle until ctx ends.
func (l *Loop) Run(ctx context.Context) error {
	logx.Info("blink start", logx.Dur("delay", l.delay), logx.Int("count", int64(l.cfg.Count)))
	for {
		if err := l.Cycle(ctx); err != nil {
			return err
		}
	}
}

// Cycle consumes the flag, blinks one burst and sleeps once.
func (l *Loop) Cycle(ctx context.Context) error {
	if l.flag.TakeAndClear() {
		from := l.delay
		l.delay = NextDelay(l.delay, l.cfg.Long, l.cfg.Short)
		logx.Debug("flag taken", logx.Dur("from", from), logx.Dur("to", l.delay))
		l.publish(TopicEvent, types.DelayChanged{
			FromMs: timex.ToMs(from),
			ToMs:   timex.ToMs(l.delay),
			TS:     timex.NowMs(),
		}, false)
	}

	if err := l.burst(ctx); err != nil {
		return err
	}
	l.bursts++
	l.publish(TopicStatus, l.status(), true)

	switch err := l.sleeper.DeepSleep(ctx); {
	case err == nil:
		l.sleeps++
	case errcode.Of(err) == errcode.SleepRefused:
		// Stay awake; the next burst runs immediately.
		logx.Error("deep sleep refused", logx.Err(err))
	default:
		return err
	}
	return nil
}

// burst toggles the LED an even number of times so it ends where it began,
// even when interrupted.
func (l *Loop) burst(ctx context.Context) error {
	for i := 0; i < l.cfg.Count; i++ {
		for half := 0; half < 2; half++ {
			l.led.Toggle()
			l.toggles++
			if err := l.wait(ctx, l.delay); err != nil {
				if half == 0 {
					l.led.Toggle()
					l.toggles++
				}
				return err
			}
		}
	}
	return nil
}

func (l *Loop) status() types.BlinkStatus {
	return types.BlinkStatus{
		DelayMs: timex.ToMs(l.delay),
		Bursts:  l.bursts,
		Toggles: l.toggles,
		Presses: l.flag.Sets(),
		Sleeps:  l.sleeps,
		TS:      timex.NowMs(),
	}
}

// Status returns a snapshot of the loop counters.
func (l *Loop) Status() types.BlinkStatus { return l.status() }

func (l *Loop) publish(t bus.Topic, payload any, retained bool) {
	if l.conn == nil {
		return
	}
	l.conn.Publish(l.conn.NewMessage(t, payload, retained))
}
