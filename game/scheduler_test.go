package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestSchedulerThrottle(t *testing.T) {
	tests := []struct {
		name      string
		fps       int
		hostEvery time.Duration
		window    time.Duration
		jitter    bool
	}{
		{"10fps on 60Hz host", 10, time.Second / 60, 10 * time.Second, false},
		{"60fps on 144Hz host", 60, time.Second / 144, 5 * time.Second, false},
		{"30fps on jittery host", 30, 7 * time.Millisecond, 5 * time.Second, true},
		{"60fps on 30Hz host", 60, time.Second / 30, 5 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var frames int
			s := NewScheduler(tt.fps, func(_, _ time.Duration) { frames++ })
			s.Start()

			rng := rand.New(rand.NewSource(1))
			var now time.Duration
			for now <= tt.window {
				s.Tick(now)
				step := tt.hostEvery
				if tt.jitter {
					step += time.Duration(rng.Int63n(int64(6 * time.Millisecond)))
				}
				now += step
			}

			limit := int(float64(tt.fps)*tt.window.Seconds()) + 1
			if frames > limit {
				t.Errorf("accepted %d frames in %v, limit %d", frames, tt.window, limit)
			}
			if int64(frames) != s.Accepted() {
				t.Errorf("callback ran %d times, Accepted() = %d", frames, s.Accepted())
			}
			if frames == 0 {
				t.Error("no frames accepted")
			}
		})
	}
}

func TestSchedulerExactGrid(t *testing.T) {
	var frames int
	s := NewScheduler(10, func(_, _ time.Duration) { frames++ })
	s.Start()

	// 50ms host ticks from 0 to 10s inclusive
	for now := time.Duration(0); now <= 10*time.Second; now += 50 * time.Millisecond {
		s.Tick(now)
	}
	if frames != 100 {
		t.Errorf("expected 100 frames, got %d", frames)
	}
	if s.Skipped() != 101 {
		t.Errorf("expected 101 skipped ticks, got %d", s.Skipped())
	}
}

func TestSchedulerCarriesRemainder(t *testing.T) {
	var deltas []time.Duration
	s := NewScheduler(10, func(_, d time.Duration) { deltas = append(deltas, d) })
	s.Start()

	s.Tick(0)
	s.Tick(130 * time.Millisecond) // accepted, 30ms carried
	s.Tick(190 * time.Millisecond) // 90ms since the grid point: skipped
	s.Tick(200 * time.Millisecond) // accepted on the grid

	if len(deltas) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(deltas))
	}
	if deltas[0] != 130*time.Millisecond || deltas[1] != 100*time.Millisecond {
		t.Errorf("unexpected deltas %v", deltas)
	}
}

func TestSchedulerUncapped(t *testing.T) {
	for _, fps := range []int{0, -5} {
		var frames int
		s := NewScheduler(fps, func(_, _ time.Duration) { frames++ })
		s.Start()
		for i := 0; i < 50; i++ {
			s.Tick(time.Duration(i) * time.Millisecond)
		}
		if frames != 50 {
			t.Errorf("fps=%d: expected every tick to run, got %d", fps, frames)
		}
		if s.Interval() != 0 {
			t.Errorf("fps=%d: expected zero interval, got %v", fps, s.Interval())
		}
	}
}

func TestSchedulerFirstTickOnlyRecords(t *testing.T) {
	var frames int
	s := NewScheduler(60, func(_, _ time.Duration) { frames++ })
	s.Start()

	if s.Tick(time.Hour) {
		t.Error("first tick should not run a frame")
	}
	if !s.Tick(time.Hour + 20*time.Millisecond) {
		t.Error("tick after one interval should run")
	}
	if frames != 1 {
		t.Errorf("expected 1 frame, got %d", frames)
	}
}

func TestSchedulerStop(t *testing.T) {
	var frames int
	s := NewScheduler(0, func(_, _ time.Duration) { frames++ })

	if s.Tick(0) {
		t.Error("idle scheduler should not run frames")
	}
	s.Start()
	s.Start()
	if s.State() != StateRunning {
		t.Fatalf("expected running, got %s", s.State())
	}
	s.Tick(time.Millisecond)
	s.Stop()
	if s.State() != StateIdle || s.Running() {
		t.Fatalf("expected idle after stop, got %s", s.State())
	}

	for i := 2; i < 20; i++ {
		if s.Tick(time.Duration(i) * time.Millisecond) {
			t.Fatal("stopped scheduler ran a frame")
		}
	}
	if frames != 1 {
		t.Errorf("expected 1 frame before stop, got %d", frames)
	}
}

func TestClock(t *testing.T) {
	fixed := NewClock(0.015)
	for i := 0; i < 4; i++ {
		fixed.Advance(time.Second)
	}
	if got := fixed.Now(); got < 0.0599 || got > 0.0601 {
		t.Errorf("fixed clock = %f, want 0.06", got)
	}
	if fixed.Step() != 0.015 || NewClock(-1).Step() != 0 {
		t.Error("unexpected clock step")
	}

	delta := NewClock(0)
	delta.Advance(500 * time.Millisecond)
	delta.Advance(250 * time.Millisecond)
	if got := delta.Now(); got != 0.75 {
		t.Errorf("delta clock = %f, want 0.75", got)
	}

	delta.Reset()
	if delta.Now() != 0 {
		t.Error("reset should zero the clock")
	}
}

func TestResizeDebouncer(t *testing.T) {
	d := NewResizeDebouncer(250 * time.Millisecond)

	d.Notify(0, Size{Width: 300, Height: 300})
	d.Notify(100*time.Millisecond, Size{Width: 320, Height: 300})
	d.Notify(200*time.Millisecond, Size{Width: 400, Height: 300})

	if _, ok := d.Poll(300 * time.Millisecond); ok {
		t.Error("size applied before the quiet period ended")
	}
	if !d.Pending() {
		t.Error("expected a pending size")
	}
	size, ok := d.Poll(450 * time.Millisecond)
	if !ok {
		t.Fatal("expected the pending size")
	}
	if size.Width != 400 {
		t.Errorf("expected the last size of the burst, got %v", size.Width)
	}
	if _, ok := d.Poll(time.Second); ok || d.Pending() {
		t.Error("size should be delivered once")
	}

	d.Notify(time.Second, Size{Width: 100, Height: 100})
	d.Cancel()
	if _, ok := d.Poll(2 * time.Second); ok {
		t.Error("cancelled size delivered")
	}
}

func TestEventsUnsubscribe(t *testing.T) {
	e := NewEvents()
	var a, b int
	unsubA := e.OnPointerLeave(func() { a++ })
	e.OnPointerLeave(func() { b++ })

	e.DispatchPointerLeave()
	unsubA()
	unsubA()
	e.DispatchPointerLeave()

	if a != 1 || b != 2 {
		t.Errorf("expected a=1 b=2, got a=%d b=%d", a, b)
	}
	if e.Count() != 1 {
		t.Errorf("expected 1 listener, got %d", e.Count())
	}
}

func TestEventsUnsubscribeDuringDispatch(t *testing.T) {
	e := NewEvents()
	var calls []string
	var unsubFirst func()
	unsubFirst = e.OnResize(func(Size) {
		calls = append(calls, "first")
		unsubFirst()
	})
	e.OnResize(func(Size) { calls = append(calls, "second") })

	e.DispatchResize(Size{})
	e.DispatchResize(Size{})

	want := []string{"first", "second", "second"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, calls)
		}
	}
}
