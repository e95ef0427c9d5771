package clock

import (
	"context"
	"time"
)

// TickerScheduler paces frames with a fixed-rate ticker.
type TickerScheduler struct {
	ticker *time.Ticker
}

// NewTickerScheduler returns a scheduler running at fps frames per second.
// A non-positive fps selects 60.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{ticker: time.NewTicker(time.Second / time.Duration(fps))}
}

// NextFrame waits for the next ticker fire.
func (s *TickerScheduler) NextFrame(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ticker.C:
		return nil
	}
}

// Close stops the ticker.
func (s *TickerScheduler) Close() {
	s.ticker.Stop()
}
