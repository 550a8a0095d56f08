package mathx

import (
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 1, 3); got != 3 {
		t.Fatalf("Clamp high = %d", got)
	}
	if got := Clamp(-1, 3, 1); got != 1 {
		t.Fatalf("Clamp swapped bounds = %d", got)
	}
	if got := Clamp(250*time.Millisecond, 0, 200*time.Millisecond); got != 200*time.Millisecond {
		t.Fatalf("Clamp duration = %v", got)
	}
}

func TestBetween(t *testing.T) {
	if !Between(uint8(3), 0, 3) {
		t.Fatal("3 should be within [0,3]")
	}
	if Between(uint8(4), 3, 0) {
		t.Fatal("4 should be outside [0,3]")
	}
}
