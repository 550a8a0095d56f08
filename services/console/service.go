package console

import (
	"context"
	"time"

	"buttonblink-go/bus"
	"buttonblink-go/types"
	"buttonblink-go/x/logx"
	"buttonblink-go/x/timex"
)

var topicBlinkAll = bus.T("blink", "#")

// Service prints blink status and delay changes as console lines, plus an
// optional heartbeat.
type Service struct {
	Heartbeat time.Duration // 0 disables
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, ready chan<- struct{}) {
	sub := conn.Subscribe(topicBlinkAll)
	defer conn.Unsubscribe(sub)
	close(ready)

	var tickC <-chan time.Time
	if s.Heartbeat > 0 {
		tick := time.NewTicker(s.Heartbeat)
		defer tick.Stop()
		tickC = tick.C
	}

	for {
		select {
		case <-ctx.Done():
			logx.Info("console stopping")
			return
		case t := <-tickC:
			logx.Info("heartbeat", logx.Str("at", t.Format("15:04:05")))
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			report(msg)
		}
	}
}

func report(msg *bus.Message) {
	switch v := msg.Payload.(type) {
	case types.BlinkStatus:
		logx.Info("blink",
			logx.Dur("delay", timex.Ms(v.DelayMs)),
			logx.Uint("bursts", uint64(v.Bursts)),
			logx.Uint("toggles", uint64(v.Toggles)),
			logx.Uint("presses", uint64(v.Presses)),
			logx.Uint("sleeps", uint64(v.Sleeps)))
	case types.DelayChanged:
		logx.Info("delay changed",
			logx.Dur("from", timex.Ms(v.FromMs)),
			logx.Dur("to", timex.Ms(v.ToMs)))
	}
}

// Start launches the console service. It returns once the subscription is
// in place so no early message is missed.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	ready := make(chan struct{})
	go s.serviceLoop(ctx, conn, ready)
	<-ready
	return nil
}
