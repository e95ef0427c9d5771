// Package debug provides frame statistics and screenshot capture.
package debug

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is how often FrameStats recomputes and logs fps.
const DefaultInterval = 500 * time.Millisecond

// FrameStats measures frame rate and per-frame work time. Begin and End
// bracket the work of one frame.
type FrameStats struct {
	Enabled  bool
	Interval time.Duration

	now func() time.Time
	log *zap.Logger

	begin      time.Time
	frameTime  time.Duration
	frames     int
	windowFrom time.Time
	fps        float64
	totalFrame uint64
	samples    uint64
	memStats   runtime.MemStats
}

// StatsOption configures FrameStats.
type StatsOption func(*FrameStats)

// WithNow replaces time.Now.
func WithNow(now func() time.Time) StatsOption {
	return func(s *FrameStats) { s.now = now }
}

// WithStatsLogger sets the logger used for periodic reports.
func WithStatsLogger(l *zap.Logger) StatsOption {
	return func(s *FrameStats) { s.log = l }
}

// NewFrameStats creates enabled stats that report every interval. A
// non-positive interval uses DefaultInterval.
func NewFrameStats(interval time.Duration, opts ...StatsOption) *FrameStats {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &FrameStats{
		Enabled:  true,
		Interval: interval,
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.windowFrom = s.now()
	return s
}

// SetEnabled turns sampling on or off. Enabling starts a fresh window so
// time spent disabled is not counted.
func (s *FrameStats) SetEnabled(on bool) {
	if on && !s.Enabled {
		s.frames = 0
		s.begin = time.Time{}
		s.windowFrom = s.now()
	}
	s.Enabled = on
}

// Begin marks the start of a frame.
func (s *FrameStats) Begin() {
	if !s.Enabled {
		return
	}
	s.begin = s.now()
}

// End marks the end of a frame and reports whether a new fps sample was
// taken.
func (s *FrameStats) End() bool {
	if !s.Enabled || s.begin.IsZero() {
		return false
	}
	now := s.now()
	s.frameTime = now.Sub(s.begin)
	s.begin = time.Time{}
	s.frames++
	s.totalFrame++

	window := now.Sub(s.windowFrom)
	if window < s.Interval {
		return false
	}
	s.fps = float64(s.frames) / window.Seconds()
	s.frames = 0
	s.windowFrom = now
	s.samples++

	runtime.ReadMemStats(&s.memStats)
	s.log.Debug("frame stats",
		zap.Float64("fps", s.fps),
		zap.Duration("frame_time", s.frameTime),
		zap.Uint64("frames", s.totalFrame),
		zap.Uint64("heap_alloc", s.memStats.HeapAlloc),
	)
	return true
}

// FPS returns the most recent frame rate sample.
func (s *FrameStats) FPS() float64 { return s.fps }

// FrameTime returns the duration of the last completed frame.
func (s *FrameStats) FrameTime() time.Duration { return s.frameTime }

// Frames returns the number of completed frames.
func (s *FrameStats) Frames() uint64 { return s.totalFrame }

// Samples returns how many fps samples have been taken.
func (s *FrameStats) Samples() uint64 { return s.samples }
