package logx

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	t.Cleanup(func() { SetOutput(nil); SetLevel(LevelInfo) })
	return &buf
}

func TestInfoFields(t *testing.T) {
	buf := capture(t)
	Info("blink", Dur("delay", 250*time.Millisecond), Int("bursts", 3), Str("led", "gpio"))
	if want := "Info: blink delay=250ms bursts=3 led=gpio\n"; buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLevelFilter(t *testing.T) {
	buf := capture(t)
	Debug("hidden")
	Error("halt", Err(errors.New("irq_setup")))
	if want := "Error: halt err=irq_setup\n"; buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestSubMillisecondDuration(t *testing.T) {
	buf := capture(t)
	Info("x", Dur("d", 1500*time.Microsecond), Int("n", -2))
	if want := "Info: x d=1500us n=-2\n"; buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
}

func TestUintField(t *testing.T) {
	buf := capture(t)
	Info("blink", Uint("bursts", 18446744073709551615))
	if want := "Info: blink bursts=18446744073709551615\n"; buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
}
