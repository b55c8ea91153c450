package core

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"
)

// ErrTooManyJobs is returned when all job slots are occupied and the wait
// timeout expires. Clients should retry after a short delay.
var ErrTooManyJobs = errors.New("too many jobs running, please try again later")

// DefaultMaxConcurrentJobs is the default limit for parallel jobs.
const DefaultMaxConcurrentJobs = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 10 * time.Second

// JobLimiter hands out a fixed number of job slots shared by every tool.
// A job holds its slot for the whole run. Callers that find no free slot
// queue for up to maxWait and are counted as waiting meanwhile.
type JobLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu      sync.Mutex
	waiting int
	running map[string]int
	total   int
	idle    chan struct{} // closed while total == 0
}

// NewJobLimiter creates a limiter with maxConcurrent slots. Non-positive
// arguments fall back to the package defaults.
func NewJobLimiter(maxConcurrent int, maxWait time.Duration) *JobLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentJobs
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	idle := make(chan struct{})
	close(idle)
	return &JobLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		running: make(map[string]int),
		idle:    idle,
	}
}

// Acquire takes a slot for a job of the given tool. It fails with
// ErrTooManyJobs once maxWait passes, or with the context error.
// Every successful Acquire must be paired with Release(tool).
func (l *JobLimiter) Acquire(ctx context.Context, tool string) error {
	select {
	case l.slots <- struct{}{}:
		l.started(tool)
		return nil
	default:
	}

	l.mu.Lock()
	l.waiting++
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.waiting--
		l.mu.Unlock()
	}()

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.started(tool)
		return nil
	case <-timer.C:
		return ErrTooManyJobs
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *JobLimiter) started(tool string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total == 0 {
		l.idle = make(chan struct{})
	}
	l.total++
	l.running[tool]++
}

// Release frees the slot held by a job of tool.
func (l *JobLimiter) Release(tool string) {
	l.mu.Lock()
	l.total--
	if l.running[tool]--; l.running[tool] <= 0 {
		delete(l.running, tool)
	}
	if l.total == 0 {
		close(l.idle)
	}
	l.mu.Unlock()

	<-l.slots
}

// WaitForDrain blocks until no job holds a slot or ctx ends.
func (l *JobLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JobLimiterStatus is a snapshot of slot usage.
type JobLimiterStatus struct {
	Active        int            `json:"active"`
	Available     int            `json:"available"`
	MaxConcurrent int            `json:"max_concurrent"`
	Waiting       int            `json:"waiting"`
	ByTool        map[string]int `json:"by_tool"`
}

// Status returns the current slot usage.
func (l *JobLimiter) Status() JobLimiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return JobLimiterStatus{
		Active:        l.total,
		Available:     cap(l.slots) - l.total,
		MaxConcurrent: cap(l.slots),
		Waiting:       l.waiting,
		ByTool:        maps.Clone(l.running),
	}
}
