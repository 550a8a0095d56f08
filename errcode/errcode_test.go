package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	if got := Of(nil); got != OK {
		t.Fatalf("Of(nil) = %q, want ok", got)
	}
	if got := Of(UnknownPin); got != UnknownPin {
		t.Fatalf("Of(code) = %q", got)
	}
	if got := Of(errors.New("boom")); got != Error {
		t.Fatalf("Of(plain) = %q, want error", got)
	}
	e := &E{C: IRQSetup, Op: "hal.Init", Err: errors.New("busy")}
	if got := Of(e); got != IRQSetup {
		t.Fatalf("Of(*E) = %q", got)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(IRQSetup, "x", nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
	cause := errors.New("vector taken")
	err := Wrap(IRQSetup, "gpioirq.Register", cause)
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error lost its cause")
	}
	if want := "gpioirq.Register: irq_setup (vector taken)"; err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
