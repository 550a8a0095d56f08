// Command buttonblink is the firmware: a switch interrupt toggles the LED
// blink interval, and the core deep-sleeps between bursts.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target pico .
//	tinygo flash -target waveshare-rp2040-zero -tags rp2040_zero .
package main

import (
	"context"
	"runtime"
	"time"

	"buttonblink-go/bus"
	"buttonblink-go/services/blink"
	"buttonblink-go/services/config"
	"buttonblink-go/services/console"
	"buttonblink-go/services/hal"
	"buttonblink-go/services/power"
	"buttonblink-go/x/logx"
	"buttonblink-go/x/timex"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)

	cfg := config.Normalise(config.Default())
	hal.Must(config.Validate(cfg))

	w, err := hal.Console(cfg.Console)
	logx.SetOutput(w)
	if err != nil {
		logx.Error("console uart", logx.Err(err))
	}
	logx.Info("boot", logx.Str("board", cfg.Name))

	board, err := hal.Init(cfg, hal.DefaultFactories())
	hal.Must(err)

	ctx := context.Background()
	b := bus.NewBus(8)

	con := &console.Service{Heartbeat: timex.Ms(cfg.Console.HeartbeatMs)}
	hal.Must(con.Start(ctx, b.NewConnection("console")))

	// The console goroutine only runs when the main goroutine yields; give it
	// the status line before the core stops.
	board.Power().Register(power.Callback{
		Name:   "console",
		Order:  -1,
		Before: func() error { runtime.Gosched(); return nil },
	})

	loop, err := blink.NewLoop(blink.ConfigFrom(cfg.Blink), board.LED(), board.Power(), board.Flag(),
		blink.WithConnection(b.NewConnection("blink")))
	hal.Must(err)

	hal.Must(loop.Run(ctx))
}
