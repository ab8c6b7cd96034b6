package acquire

import (
	"context"
	"time"
)

// Sleeper abstracts the backoff wait so tests can run without real delays.
type Sleeper interface {
	// Sleep waits for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// DefaultSleeper waits on a timer.
type DefaultSleeper struct{}

// Sleep implements Sleeper.
func (DefaultSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
