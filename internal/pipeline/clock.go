package pipeline

import "sync/atomic"

// Clock hands out artifact sequence numbers.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic sequence counter. It is safe for concurrent
// use.
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next is 1.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// NewClockAt creates a clock that resumes after start. Used to continue
// numbering from the last pass in a store.
func NewClockAt(start int64) *LogicalClock {
	c := &LogicalClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last number handed out without advancing.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
