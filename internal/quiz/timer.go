package quiz

import (
	"sync"
	"time"
)

// Clock is injectable so tests can pin time.
type Clock func() time.Time

// Countdown counts seconds toward zero and fires onExpire exactly once.
// Start runs a real one-second ticker; tests drive Tick directly instead.
// Stop cancels the ticker deterministically so a manual submit can never
// race a late auto-submit into a double transition.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	onExpire  func()

	stop     chan struct{}
	stopOnce sync.Once
	fireOnce sync.Once
}

func NewCountdown(seconds int, onExpire func()) *Countdown {
	return &Countdown{
		remaining: seconds,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// Start begins ticking on wall time until zero or Stop.
func (c *Countdown) Start() {
	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				if c.Tick() {
					return
				}
			}
		}
	}()
}

// Tick consumes one second and reports whether the countdown is done. The
// expiry callback runs at most once even if ticks keep arriving around the
// zero boundary.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	done := c.remaining <= 0
	c.mu.Unlock()
	if done && c.onExpire != nil {
		c.fireOnce.Do(c.onExpire)
	}
	return done
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Stop cancels ticking. Safe to call repeatedly; it does not fire expiry.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
