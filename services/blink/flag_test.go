package blink

import (
	"sync"
	"testing"
)

func TestFlagTakeAndClear(t *testing.T) {
	var f Flag
	if f.TakeAndClear() {
		t.Fatal("fresh flag should be clear")
	}
	f.Set()
	f.Set() // presses collapse into one
	if !f.TakeAndClear() {
		t.Fatal("expected flag raised")
	}
	if f.TakeAndClear() {
		t.Fatal("flag should be cleared by take")
	}
	if f.Sets() != 2 {
		t.Fatalf("Sets = %d, want 2", f.Sets())
	}
}

func TestFlagConcurrentSetters(t *testing.T) {
	var f Flag
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.Set()
			}
		}()
	}
	wg.Wait()
	if !f.TakeAndClear() || f.Sets() != 800 {
		t.Fatalf("sets = %d", f.Sets())
	}
}
