// Package clock abstracts wall-clock reads and periodic scheduling so that
// timer-driven code (typing reveal, OTP countdown, expiry checks) can be
// driven deterministically in tests.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time and periodic callbacks.
type Clock interface {
	Now() time.Time
	// Every calls fn once per interval until the returned Job is stopped.
	// fn must not block.
	Every(interval time.Duration, fn func()) Job
}

// Job is a scheduled periodic callback.
type Job interface {
	// Stop cancels future calls. Safe to call more than once and from within
	// the callback itself.
	Stop()
}

type realClock struct{}

// New returns a Clock backed by the runtime timers.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Every(interval time.Duration, fn func()) Job {
	j := &tickerJob{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go j.run(fn)
	return j
}

type tickerJob struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (j *tickerJob) run(fn func()) {
	for {
		select {
		case <-j.done:
			return
		case <-j.ticker.C:
			// a tick may already be buffered when Stop races with it
			select {
			case <-j.done:
				return
			default:
			}
			fn()
		}
	}
}

func (j *tickerJob) Stop() {
	j.once.Do(func() {
		j.ticker.Stop()
		close(j.done)
	})
}
