package search

import "time"

// Mark is an opaque point in time produced by a Clock.
type Mark int64

// Clock is the only time source the engine consults.
type Clock interface {
	Mark() Mark
	ElapsedSince(m Mark) time.Duration
}

// SystemClock reads the monotonic wall clock.
type SystemClock struct {
	base time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{base: time.Now()}
}

func (c *SystemClock) Mark() Mark {
	return Mark(time.Since(c.base))
}

func (c *SystemClock) ElapsedSince(m Mark) time.Duration {
	return time.Since(c.base) - time.Duration(m)
}

// ManualClock only moves when told to. Scripted bench runs use it so the
// colour offer and search budgets do not depend on host speed.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Mark() Mark                        { return Mark(c.now) }
func (c *ManualClock) ElapsedSince(m Mark) time.Duration { return c.now - time.Duration(m) }
func (c *ManualClock) Advance(d time.Duration)           { c.now += d }
