package service

import (
	"sync"
	"time"

	"mediconnect-backend/internal/apps/otp/models"
	"mediconnect-backend/internal/common/clock"
)

// Countdown ticks once per second from the remaining validity of a code down
// to zero. Reaching zero fires onDone, after which a resend is allowed.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	finished  bool
	job       clock.Job
	onTick    func(remaining int)
	onDone    func()
}

// NewCountdown starts a countdown toward expiresAt. onTick receives the
// seconds left after each tick; onDone runs once when the count hits zero.
// Either callback may be nil.
func NewCountdown(clk clock.Clock, expiresAt time.Time, onTick func(remaining int), onDone func()) *Countdown {
	c := &Countdown{
		remaining: models.SecondsUntil(clk.Now(), expiresAt),
		onTick:    onTick,
		onDone:    onDone,
	}

	if c.remaining == 0 {
		c.finished = true
		if onDone != nil {
			onDone()
		}
		return c
	}

	c.mu.Lock()
	c.job = clk.Every(time.Second, c.tick)
	c.mu.Unlock()
	return c
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.remaining--
	remaining := c.remaining
	done := remaining <= 0
	if done {
		c.finished = true
		c.job.Stop()
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(remaining)
	}
	if done && c.onDone != nil {
		c.onDone()
	}
}

// Remaining returns the seconds left
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Finished reports whether the countdown reached zero
func (c *Countdown) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished && c.remaining == 0
}

// Stop releases the timer without firing onDone. Safe to call repeatedly.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished = true
	if c.job != nil {
		c.job.Stop()
	}
}
