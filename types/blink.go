package types

// BlinkStatus is published (retained) after every burst.
type BlinkStatus struct {
	DelayMs uint32 `json:"delay_ms"`
	Bursts  uint32 `json:"bursts"`
	Toggles uint32 `json:"toggles"`
	Presses uint32 `json:"presses"` // ISR flag sets observed so far
	Sleeps  uint32 `json:"sleeps"`
	TS      int64  `json:"ts_ms"`
}

// DelayChanged is published when the loop consumes the button flag.
type DelayChanged struct {
	FromMs uint32 `json:"from_ms"`
	ToMs   uint32 `json:"to_ms"`
	TS     int64  `json:"ts_ms"`
}
