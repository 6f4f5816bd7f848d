package timing

import (
	"context"
	"time"
)

// TickerLimiter uses time.Ticker for simple, consistent frame timing.
// Less accurate than AdaptiveLimiter but simpler and good enough for most cases.
type TickerLimiter struct {
	frame  time.Duration
	ticker *time.Ticker
}

// NewTickerLimiter ticks once per frame. A zero frame uses FrameDuration.
func NewTickerLimiter(frame time.Duration) *TickerLimiter {
	if frame <= 0 {
		frame = FrameDuration()
	}
	return &TickerLimiter{
		frame:  frame,
		ticker: time.NewTicker(frame),
	}
}

func (t *TickerLimiter) WaitForNextFrame(ctx context.Context) error {
	select {
	case <-t.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.frame)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
