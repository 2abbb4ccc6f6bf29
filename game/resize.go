package game

import "time"

// Size is a display size notification.
type Size struct {
	Width, Height float64
	PixelRatio    float64
}

// ResizeDebouncer coalesces bursts of resize notifications.
// Only the last size of a burst is applied, once delay has passed since
// the last notification. Time is the host clock; nothing runs in the background.
type ResizeDebouncer struct {
	delay    time.Duration
	pending  bool
	deadline time.Duration
	size     Size
}

// NewResizeDebouncer creates a debouncer with the given quiet period.
func NewResizeDebouncer(delay time.Duration) *ResizeDebouncer {
	if delay < 0 {
		delay = 0
	}
	return &ResizeDebouncer{delay: delay}
}

// Notify records a size seen at host time now and restarts the quiet period.
func (d *ResizeDebouncer) Notify(now time.Duration, size Size) {
	d.size = size
	d.deadline = now + d.delay
	d.pending = true
}

// Poll returns the pending size once its quiet period has passed.
func (d *ResizeDebouncer) Poll(now time.Duration) (Size, bool) {
	if !d.pending || now < d.deadline {
		return Size{}, false
	}
	d.pending = false
	return d.size, true
}

// Pending reports whether a size is waiting.
func (d *ResizeDebouncer) Pending() bool {
	return d.pending
}

// Cancel drops any pending size.
func (d *ResizeDebouncer) Cancel() {
	d.pending = false
}
