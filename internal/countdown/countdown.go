// Package countdown implements the locally ticking, remote-authoritative
// countdown used for the pick timer. Local ticks are a presentation
// optimization: any authoritative server value restarts the counter and
// always wins over local drift.
package countdown

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown ticks an integer seconds counter down to zero, once per
// second. At most one tick loop is live at a time: Start cancels any
// previous loop before seeding the counter, and the loop halts itself
// when the counter reaches zero.
type Countdown struct {
	clock clockwork.Clock

	mu        sync.Mutex
	remaining int
	cancel    chan struct{}
	done      chan struct{}
}

// New creates a stopped countdown driven by the given clock.
func New(clock clockwork.Clock) *Countdown {
	return &Countdown{clock: clock}
}

// Start cancels any running tick, seeds the counter with the
// authoritative value and begins ticking down. A non-positive value just
// stores the value and leaves the countdown halted.
func (c *Countdown) Start(seconds int) {
	c.cancelTick()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.remaining = seconds
	if seconds <= 0 {
		return
	}

	cancel := make(chan struct{})
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	go c.run(cancel, done)
}

// Stop halts the tick loop, keeping the current counter value. It is
// idempotent and must be called when the owning screen tears down so no
// timer keeps firing afterwards.
func (c *Countdown) Stop() {
	c.cancelTick()
}

// cancelTick stops the live tick loop, if any, and waits for it to
// release its timer before returning.
func (c *Countdown) cancelTick() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		close(cancel)
		<-done
	}
}

// Remaining returns the current counter value.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) run(cancel, done chan struct{}) {
	defer close(done)

	timer := c.clock.NewTimer(time.Second)
	defer stopAndDrainTimer(timer)

	for {
		select {
		case <-cancel:
			return
		case <-timer.Chan():
			c.mu.Lock()
			// A Start or Stop may have raced the tick.
			if c.cancel != cancel {
				c.mu.Unlock()
				return
			}
			c.remaining--
			finished := c.remaining <= 0
			if finished {
				c.cancel, c.done = nil, nil
			}
			c.mu.Unlock()

			if finished {
				return
			}
			timer.Reset(time.Second)
		}
	}
}

// stopAndDrainTimer safely stops a timer and drains its channel, per the
// time.Timer.Stop documentation.
func stopAndDrainTimer(timer clockwork.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.Chan():
		default:
		}
	}
}
