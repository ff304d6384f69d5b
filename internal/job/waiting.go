package job

import (
	"context"
	"time"
)

// SleepWork returns a runnable that blocks for d, or until ctx ends.
// It reports ctx.Err() when the wait was cut short.
func SleepWork(d time.Duration) func(context.Context) error {
	return func(ctx context.Context) error {
		if d <= 0 {
			return ctx.Err()
		}
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			// If the time is up, we just return nil.
			return nil
		}
	}
}

// Units converts a count of abstract time units into a wall-clock duration.
func Units(n int, unit time.Duration) time.Duration {
	if n <= 0 || unit <= 0 {
		return 0
	}
	return time.Duration(n) * unit
}
