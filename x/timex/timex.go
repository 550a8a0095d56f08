package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Ms converts a whole number of milliseconds to a Duration.
func Ms(ms uint32) time.Duration { return time.Duration(ms) * time.Millisecond }

// ToMs truncates d to whole milliseconds; negative durations become 0.
func ToMs(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d / time.Millisecond)
}

// Wait blocks for d or until done is closed, whichever comes first.
// It reports false if done fired first.
func Wait(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-done:
			return false
		default:
			return true
		}
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-done:
		return false
	case <-t.C:
		return true
	}
}
