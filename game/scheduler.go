package game

import "time"

// SchedulerState is the lifecycle state of a Scheduler.
type SchedulerState uint8

const (
	StateIdle SchedulerState = iota
	StateRunning
)

func (s SchedulerState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// FrameFunc performs one accepted frame. now is the host time of the tick
// and delta the time since the previous accepted frame.
type FrameFunc func(now, delta time.Duration)

// Scheduler throttles host frame callbacks to a target rate.
//
// The host calls Tick once per display frame. The first tick after Start or
// ResetClock only records the time. Later ticks run the frame when at least
// one interval has passed, then carry the remainder forward so accepted
// frames stay on the interval grid instead of drifting.
type Scheduler struct {
	interval time.Duration
	frame    FrameFunc

	state    SchedulerState
	last     time.Duration
	hasLast  bool
	accepted int64
	skipped  int64
}

// NewScheduler creates an idle scheduler. targetFPS <= 0 accepts every tick.
func NewScheduler(targetFPS int, frame FrameFunc) *Scheduler {
	s := &Scheduler{frame: frame}
	s.SetTargetFPS(targetFPS)
	return s
}

// SetTargetFPS changes the target rate.
func (s *Scheduler) SetTargetFPS(targetFPS int) {
	if targetFPS <= 0 {
		s.interval = 0
		return
	}
	s.interval = time.Second / time.Duration(targetFPS)
}

// Interval returns the minimum time between accepted frames.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start moves the scheduler to running. Starting twice is a no-op.
func (s *Scheduler) Start() {
	if s.state == StateRunning {
		return
	}
	s.state = StateRunning
	s.hasLast = false
}

// Stop moves the scheduler to idle. Later ticks do nothing.
func (s *Scheduler) Stop() {
	s.state = StateIdle
	s.hasLast = false
}

// ResetClock forgets the last accepted frame without changing the state.
func (s *Scheduler) ResetClock() {
	s.hasLast = false
}

// State returns the current state.
func (s *Scheduler) State() SchedulerState {
	return s.state
}

// Running reports whether ticks can run frames.
func (s *Scheduler) Running() bool {
	return s.state == StateRunning
}

// Tick is the host per-frame callback. Returns true if the frame ran.
func (s *Scheduler) Tick(now time.Duration) bool {
	if s.state != StateRunning {
		return false
	}
	if !s.hasLast {
		s.last = now
		s.hasLast = true
		if s.interval > 0 {
			s.skipped++
			return false
		}
	}

	delta := now - s.last
	if s.interval > 0 {
		if delta < s.interval {
			s.skipped++
			return false
		}
		s.last = now - delta%s.interval
	} else {
		s.last = now
	}

	s.accepted++
	if s.frame != nil {
		s.frame(now, delta)
	}
	return true
}

// Accepted returns the number of frames that ran.
func (s *Scheduler) Accepted() int64 { return s.accepted }

// Skipped returns the number of ticks throttled away.
func (s *Scheduler) Skipped() int64 { return s.skipped }
