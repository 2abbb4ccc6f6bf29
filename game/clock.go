package game

import "time"

// Clock is the animation time fed to the flow evaluator.
// It only advances on accepted frames: by a fixed step when one is set,
// otherwise by the real time since the previous accepted frame.
type Clock struct {
	step    float64
	elapsed float64
}

// NewClock creates a clock. step <= 0 selects frame-delta mode.
func NewClock(step float64) *Clock {
	if step < 0 {
		step = 0
	}
	return &Clock{step: step}
}

// Advance moves the clock forward one accepted frame and returns the new time.
func (c *Clock) Advance(delta time.Duration) float64 {
	if c.step > 0 {
		c.elapsed += c.step
	} else if delta > 0 {
		c.elapsed += delta.Seconds()
	}
	return c.elapsed
}

// Now returns the current animation time.
func (c *Clock) Now() float64 {
	return c.elapsed
}

// Reset sets the animation time back to zero.
func (c *Clock) Reset() {
	c.elapsed = 0
}

// Set jumps to t, as when restoring a snapshot.
func (c *Clock) Set(t float64) {
	c.elapsed = t
}

// Step returns the fixed step, or 0 in frame-delta mode.
func (c *Clock) Step() float64 {
	return c.step
}
