package quiz

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestCountdownTicksToZero(t *testing.T) {
	var fired int32
	c := NewCountdown(3, func() { atomic.AddInt32(&fired, 1) })

	if c.Tick() {
		t.Fatalf("done after 1 tick of 3")
	}
	if c.Remaining() != 2 {
		t.Fatalf("remaining = %d, want 2", c.Remaining())
	}
	c.Tick()
	if !c.Tick() {
		t.Fatalf("expected done at zero")
	}
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
}

func TestCountdownExpiresOnce(t *testing.T) {
	var fired int32
	c := NewCountdown(1, func() { atomic.AddInt32(&fired, 1) })

	// Redundant ticks around the zero boundary must not re-fire.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
	}
	wg.Wait()
	if atomic.LoadInt32(&fired) != 1 {
		t.Fatalf("fired = %d, want exactly 1", fired)
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	c := NewCountdown(5, func() { t.Fatalf("expiry must not fire on stop") })
	c.Start()
	c.Stop()
	c.Stop()
	if c.Remaining() > 5 {
		t.Fatalf("remaining grew: %d", c.Remaining())
	}
}
