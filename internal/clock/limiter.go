package clock

import (
	"context"
	"time"
)

// Limiter paces the frame loop to a fixed number of frames per second.
type Limiter struct {
	pulse *time.Ticker
}

// NewLimiter returns a limiter that triggers framesPerSecond times per second.
func NewLimiter(framesPerSecond int) *Limiter {
	return &Limiter{
		pulse: time.NewTicker(FramePeriod(framesPerSecond)),
	}
}

// Wait blocks until the next frame is due or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case <-l.pulse.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases the ticker of the limiter.
func (l *Limiter) Stop() {
	l.pulse.Stop()
}

// FramePeriod returns the duration of a single frame at the given rate.
func FramePeriod(framesPerSecond int) time.Duration {
	return time.Second / time.Duration(framesPerSecond)
}
