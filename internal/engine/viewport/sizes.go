// Package viewport tracks the render surface dimensions.
package viewport

import (
	"go.uber.org/zap"

	"github.com/Faultbox/experience/internal/events"
)

// MaxPixelRatio bounds the device pixel ratio used for rendering.
const MaxPixelRatio = 2.0

// Sizes holds the window size in points and the capped pixel ratio.
// It emits "resize" with itself as the only argument.
type Sizes struct {
	events.Emitter

	Width      int
	Height     int
	PixelRatio float64

	maxRatio float64
	coalesce bool
	pending  bool
	log      *zap.Logger
}

// Option configures Sizes.
type Option func(*Sizes)

// WithCoalescing defers resize events until Flush, so a burst of host
// resizes produces one event per frame.
func WithCoalescing() Option {
	return func(s *Sizes) { s.coalesce = true }
}

// WithMaxPixelRatio lowers the pixel ratio cap. Values above MaxPixelRatio
// or below 1 are ignored.
func WithMaxPixelRatio(r float64) Option {
	return func(s *Sizes) {
		if r >= 1 && r <= MaxPixelRatio {
			s.maxRatio = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sizes) { s.log = l }
}

// New measures the initial surface.
func New(width, height int, pixelRatio float64, opts ...Option) *Sizes {
	s := &Sizes{maxRatio: MaxPixelRatio, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.measure(width, height, pixelRatio)
	return s
}

func (s *Sizes) measure(width, height int, pixelRatio float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	s.Width = width
	s.Height = height
	s.PixelRatio = min(pixelRatio, s.maxRatio)
}

// Resize re-measures the surface and emits "resize", or marks it pending
// when coalescing.
func (s *Sizes) Resize(width, height int, pixelRatio float64) {
	s.measure(width, height, pixelRatio)
	s.log.Debug("viewport resized",
		zap.Int("width", s.Width),
		zap.Int("height", s.Height),
		zap.Float64("pixel_ratio", s.PixelRatio),
	)
	if s.coalesce {
		s.pending = true
		return
	}
	s.Trigger(events.EventResize, s)
}

// Flush emits a pending coalesced resize. It reports whether an event fired.
func (s *Sizes) Flush() bool {
	if !s.pending {
		return false
	}
	s.pending = false
	s.Trigger(events.EventResize, s)
	return true
}

// Aspect returns width / height.
func (s *Sizes) Aspect() float32 {
	return float32(s.Width) / float32(s.Height)
}

// DrawableSize returns the surface size in physical pixels.
func (s *Sizes) DrawableSize() (int, int) {
	return int(float64(s.Width) * s.PixelRatio), int(float64(s.Height) * s.PixelRatio)
}
