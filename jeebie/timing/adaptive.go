package timing

import (
	"context"
	"log/slog"
	"time"
)

// AdaptiveLimiter keeps an absolute schedule so sleep overshoot doesn't
// accumulate, and nudges the schedule when it drifts.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	timer           *time.Timer
}

// NewAdaptiveLimiter paces frames of the given duration. A zero frame uses
// FrameDuration.
func NewAdaptiveLimiter(frame time.Duration) *AdaptiveLimiter {
	if frame <= 0 {
		frame = FrameDuration()
	}
	timer := time.NewTimer(frame)
	timer.Stop()
	return &AdaptiveLimiter{
		targetFrameTime: frame,
		nextFrameTime:   time.Now(),
		timer:           timer,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame(ctx context.Context) error {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		a.timer.Reset(sleepTime)
		select {
		case <-a.timer.C:
		case <-ctx.Done():
			a.timer.Stop()
			return ctx.Err()
		}
	} else if sleepTime < -5*a.targetFrameTime {
		// too far behind to catch up, drop the missed frames
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		drift := time.Since(a.nextFrameTime.Add(-a.targetFrameTime))
		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Frame timing drift correction", "drift_ms", drift.Milliseconds(), "frames", a.frameCounter)
		}
	}

	return nil
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.frameCounter = 0
}

func (a *AdaptiveLimiter) Stop() {
	a.timer.Stop()
}

// Frames returns the number of frames paced since the last reset.
func (a *AdaptiveLimiter) Frames() int64 {
	return a.frameCounter
}
