package testutil

import "sync"

// StepClock is a resettable logical clock for artifact sequence numbers.
// It satisfies pipeline.Clock, so a pass compiled twice with a reset clock
// stamps identical seq values and produces identical golden output.
type StepClock struct {
	mu  sync.Mutex
	seq int64
}

// NewStepClock returns a clock whose first Next is 1.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// Next advances the clock and returns the new value.
func (c *StepClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last value handed out, or 0.
func (c *StepClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
