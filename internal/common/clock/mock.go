package clock

import (
	"sync"
	"time"
)

// Mock is a manually advanced Clock. Scheduled callbacks run synchronously
// inside Add, in firing order, so tests observe every tick.
type Mock struct {
	mu   sync.Mutex
	now  time.Time
	jobs []*mockJob
}

// NewMock returns a Mock clock set to start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) Every(interval time.Duration, fn func()) Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	j := &mockJob{
		mock:     m,
		interval: interval,
		next:     m.now.Add(interval),
		fn:       fn,
	}
	m.jobs = append(m.jobs, j)
	return j
}

// Add moves the clock forward by d, firing every callback that falls due.
func (m *Mock) Add(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *mockJob
		for _, j := range m.jobs {
			if j.next.After(target) {
				continue
			}
			if due == nil || j.next.Before(due.next) {
				due = j
			}
		}
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// Pending reports how many jobs are still scheduled.
func (m *Mock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

type mockJob struct {
	mock     *Mock
	interval time.Duration
	next     time.Time
	fn       func()
}

func (j *mockJob) Stop() {
	m := j.mock
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, other := range m.jobs {
		if other == j {
			m.jobs = append(m.jobs[:i], m.jobs[i+1:]...)
			return
		}
	}
}
