// Package clock drives the per-frame tick loop.
package clock

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/events"
)

// DefaultDelta is the nominal frame delta reported before the first tick.
const DefaultDelta = 16 * time.Millisecond

// ErrStopped is returned by Run when Stop ended the loop.
var ErrStopped = errors.New("clock stopped")

// Clock reports the current time. Implementations must return readings
// that carry a monotonic component (time.Now does).
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler paces frames. NextFrame blocks until the next frame may run.
type Scheduler interface {
	NextFrame(ctx context.Context) error
}

// Time tracks frame timing and emits a "tick" event with itself as the
// only argument once per frame.
type Time struct {
	events.Emitter

	clock   Clock
	log     *zap.Logger
	start   time.Time
	current time.Time
	delta   time.Duration
	elapsed time.Duration
	frame   uint64
	running bool
	stopped bool
}

// Option configures a Time.
type Option func(*Time)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(t *Time) { t.clock = c }
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(t *Time) { t.log = l }
}

// New creates a stopped Time whose start is the current clock reading.
func New(opts ...Option) *Time {
	t := &Time{
		clock: SystemClock{},
		log:   zap.NewNop(),
		delta: DefaultDelta,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.start = t.clock.Now()
	t.current = t.start
	return t
}

// StartTime returns the creation time.
func (t *Time) StartTime() time.Time { return t.start }

// Current returns the timestamp of the last tick.
func (t *Time) Current() time.Time { return t.current }

// Delta returns the time between the last two ticks.
func (t *Time) Delta() time.Duration { return t.delta }

// DeltaSeconds returns Delta in seconds.
func (t *Time) DeltaSeconds() float64 { return t.delta.Seconds() }

// Elapsed returns the time since creation as of the last tick.
func (t *Time) Elapsed() time.Duration { return t.elapsed }

// ElapsedSeconds returns Elapsed in seconds.
func (t *Time) ElapsedSeconds() float64 { return t.elapsed.Seconds() }

// Frame returns the number of ticks emitted so far.
func (t *Time) Frame() uint64 { return t.frame }

// Running reports whether the loop is active.
func (t *Time) Running() bool { return t.running }

// Tick advances the clock by one frame and emits "tick".
// A clock reading earlier than the previous one yields a zero delta.
func (t *Time) Tick() {
	now := t.clock.Now()
	if now.Before(t.current) {
		now = t.current
	}
	t.delta = now.Sub(t.current)
	t.current = now
	t.elapsed = now.Sub(t.start)
	t.frame++

	t.Trigger(events.EventTick, t)
}

// Stop ends Run after the tick in progress completes. It is permanent: a
// Stop before Run makes Run return ErrStopped without ticking.
func (t *Time) Stop() {
	t.stopped = true
	t.running = false
}

// Run ticks once per scheduler frame until ctx is cancelled, the scheduler
// fails or Stop is called. Each tick's handlers finish before the next frame
// is requested.
func (t *Time) Run(ctx context.Context, sched Scheduler) error {
	if t.stopped {
		return ErrStopped
	}
	t.running = true
	defer func() { t.running = false }()

	t.log.Debug("tick loop started")
	for {
		if err := sched.NextFrame(ctx); err != nil {
			t.log.Debug("tick loop ended", zap.Error(err), zap.Uint64("frames", t.frame))
			return err
		}
		if t.stopped {
			return ErrStopped
		}
		t.Tick()
		if t.stopped {
			t.log.Debug("tick loop stopped", zap.Uint64("frames", t.frame))
			return ErrStopped
		}
	}
}
