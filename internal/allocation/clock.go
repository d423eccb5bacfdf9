package allocation

import (
	"sync"
	"time"
)

// Clock supplies the current instant. Validation and booking timestamps read
// time only through a Clock so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the process wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant until Set is called.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock returns a clock pinned at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// CurrentTimeOfDay is the clock's current minute of the day.
func CurrentTimeOfDay(c Clock) TimeOfDay {
	if c == nil {
		c = SystemClock{}
	}
	return TimeOfDayOf(c.Now())
}
