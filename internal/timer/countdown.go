// Package timer drives the fixed-duration answer window for the active poll.
package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown emits one tick per interval with the remaining count, then one
// expiry when the count reaches zero. At most one countdown runs at a time:
// Start replaces any running countdown, and every callback carries the
// generation of the countdown that produced it so consumers can drop ticks
// from a replaced run.
type Countdown struct {
	clock    clockwork.Clock
	interval time.Duration
	onTick   func(gen uint64, remaining int)
	onExpire func(gen uint64)

	mu   sync.Mutex
	gen  uint64
	stop chan struct{} // nil when idle
}

// NewCountdown creates a countdown. Callbacks are invoked from the countdown
// goroutine and must do their own locking.
func NewCountdown(clock clockwork.Clock, interval time.Duration, onTick func(gen uint64, remaining int), onExpire func(gen uint64)) *Countdown {
	return &Countdown{
		clock:    clock,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start cancels any running countdown and begins a new one from total.
// It returns the generation of the new run.
func (c *Countdown) Start(total int) uint64 {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	c.gen++
	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	go c.run(gen, total, stop)
	return gen
}

// Cancel stops the running countdown without firing expiry. Used when every
// student answers before the window closes.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Countdown) run(gen uint64, remaining int, stop chan struct{}) {
	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			// A tick can race with replacement; recheck before reporting.
			select {
			case <-stop:
				return
			default:
			}
			remaining--
			c.onTick(gen, remaining)
			if remaining <= 0 {
				c.onExpire(gen)
				return
			}
		case <-stop:
			return
		}
	}
}
