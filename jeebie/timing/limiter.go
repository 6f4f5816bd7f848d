package timing

import (
	"context"
	"time"
)

// Limiter paces the driving loop to real time, one frame at a time.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame, returning
	// immediately when behind schedule. It returns the context's error if
	// ctx is done first.
	WaitForNextFrame(ctx context.Context) error

	// Reset restarts the schedule from now, useful after pauses.
	Reset()

	// Stop releases the limiter's resources.
	Stop()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame(ctx context.Context) error { return ctx.Err() }
func (noOpLimiter) Reset()                                     {}
func (noOpLimiter) Stop()                                      {}

// Constants for Game Boy timing
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS calculates the exact Game Boy frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
