package usersload

import (
	"context"
	"math/rand"
	"time"
)

// WaitTimeFunc returns the pause a simulated user takes after an iteration
type WaitTimeFunc func() time.Duration

// Waiter is implemented by attacks which define their own pacing in UserSystem mode
type Waiter interface {
	WaitTime() time.Duration
}

// Between waits a uniformly random duration in [min, max], bounds included
func Between(min, max time.Duration) WaitTimeFunc {
	if max < min {
		min, max = max, min
	}
	return func() time.Duration {
		if max == min {
			return min
		}
		return min + time.Duration(rand.Int63n(int64(max-min)+1))
	}
}

// Constant always waits d
func Constant(d time.Duration) WaitTimeFunc {
	return func() time.Duration {
		return d
	}
}

// sleepCtx returns false if ctx is done before d elapsed
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
