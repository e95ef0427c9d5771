package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/experience/internal/events"
)

type fakeClock struct {
	times []time.Time
	i     int
}

func (c *fakeClock) Now() time.Time {
	t := c.times[c.i]
	if c.i < len(c.times)-1 {
		c.i++
	}
	return t
}

type countScheduler struct {
	frames int
	limit  int
}

func (s *countScheduler) NextFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.frames >= s.limit {
		return context.Canceled
	}
	s.frames++
	return nil
}

func at(ms int) time.Time {
	return time.Unix(1700000000, 0).Add(time.Duration(ms) * time.Millisecond)
}

func TestNewDefaults(t *testing.T) {
	tm := New(WithClock(&fakeClock{times: []time.Time{at(0)}}))

	if tm.Delta() != DefaultDelta {
		t.Errorf("Delta = %v, want %v", tm.Delta(), DefaultDelta)
	}
	if tm.Elapsed() != 0 {
		t.Errorf("Elapsed = %v, want 0", tm.Elapsed())
	}
	if !tm.Current().Equal(tm.StartTime()) {
		t.Error("expected current to equal start before first tick")
	}
	if tm.Running() {
		t.Error("expected new Time to be stopped")
	}
}

func TestTickDeltas(t *testing.T) {
	fc := &fakeClock{times: []time.Time{at(0), at(16), at(40), at(41)}}
	tm := New(WithClock(fc))

	wantDeltas := []time.Duration{16 * time.Millisecond, 24 * time.Millisecond, time.Millisecond}
	var lastElapsed time.Duration
	for i, want := range wantDeltas {
		tm.Tick()
		if tm.Delta() != want {
			t.Errorf("tick %d: Delta = %v, want %v", i, tm.Delta(), want)
		}
		if tm.Elapsed() < lastElapsed {
			t.Errorf("tick %d: elapsed went backwards (%v < %v)", i, tm.Elapsed(), lastElapsed)
		}
		lastElapsed = tm.Elapsed()
	}
	if tm.Elapsed() != 41*time.Millisecond {
		t.Errorf("Elapsed = %v, want 41ms", tm.Elapsed())
	}
	if tm.Frame() != 3 {
		t.Errorf("Frame = %d, want 3", tm.Frame())
	}
}

func TestTickClockBackwards(t *testing.T) {
	fc := &fakeClock{times: []time.Time{at(0), at(100), at(50)}}
	tm := New(WithClock(fc))

	tm.Tick()
	tm.Tick()

	if tm.Delta() != 0 {
		t.Errorf("Delta = %v, want 0 for a backwards reading", tm.Delta())
	}
	if !tm.Current().Equal(at(100)) {
		t.Errorf("Current = %v, want %v", tm.Current(), at(100))
	}
}

func TestTickEmitsEvent(t *testing.T) {
	tm := New(WithClock(&fakeClock{times: []time.Time{at(0), at(16)}}))

	var order []int
	var got *Time
	tm.On(events.EventTick, func(args ...any) {
		order = append(order, 1)
		got = args[0].(*Time)
	})
	tm.On(events.EventTick, func(args ...any) { order = append(order, 2) })

	tm.Tick()

	if got != tm {
		t.Error("tick handler did not receive the Time")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("handler order = %v, want [1 2]", order)
	}
}

func TestRunUntilSchedulerEnds(t *testing.T) {
	tm := New()
	ticks := 0
	tm.On(events.EventTick, func(args ...any) {
		if !tm.Running() {
			t.Error("expected Running during tick")
		}
		ticks++
	})

	err := tm.Run(context.Background(), &countScheduler{limit: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if ticks != 5 {
		t.Errorf("ticks = %d, want 5", ticks)
	}
	if tm.Running() {
		t.Error("expected Running false after Run returns")
	}
}

func TestRunStop(t *testing.T) {
	tm := New()
	ticks := 0
	tm.On(events.EventTick, func(args ...any) {
		ticks++
		if ticks == 3 {
			tm.Stop()
		}
	})

	err := tm.Run(context.Background(), &countScheduler{limit: 100})
	if !errors.Is(err, ErrStopped) {
		t.Errorf("Run error = %v, want ErrStopped", err)
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}

func TestStopBeforeRun(t *testing.T) {
	tm := New()
	ticks := 0
	tm.On(events.EventTick, func(args ...any) { ticks++ })

	tm.Stop()
	sched := &countScheduler{limit: 10}
	if err := tm.Run(context.Background(), sched); !errors.Is(err, ErrStopped) {
		t.Errorf("Run error = %v, want ErrStopped", err)
	}
	if ticks != 0 {
		t.Errorf("ticks = %d, want 0", ticks)
	}
	if tm.Running() {
		t.Error("expected Running false")
	}
}

func TestRunCancelledContext(t *testing.T) {
	tm := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ticks := 0
	tm.On(events.EventTick, func(args ...any) { ticks++ })

	if err := tm.Run(ctx, &countScheduler{limit: 10}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if ticks != 0 {
		t.Errorf("ticks = %d, want 0", ticks)
	}
}

func TestTickerScheduler(t *testing.T) {
	s := NewTickerScheduler(1000)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		if err := s.NextFrame(ctx); err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
	}
}

func TestTickerSchedulerCancelled(t *testing.T) {
	s := NewTickerScheduler(1)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.NextFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("NextFrame error = %v, want context.Canceled", err)
	}
}
