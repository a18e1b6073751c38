package retry

import (
	"context"
	"errors"
	"time"

	"github.com/code-payments/auction-house-client/pkg/retry/backoff"
)

// Strategy decides whether an action is attempted again after it failed for
// the given attempt. Strategies may block.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, including the first.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only retries errors matching one of targets, as determined
// by errors.Is.
func RetriableErrors(targets ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// BackoffContext sleeps for the capped delay, stopping all retries as soon
// as ctx is done.
func BackoffContext(ctx context.Context, strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		timer := time.NewTimer(capped(strategy, maxBackoff, attempts))
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return ctx.Err() == nil
		}
	}
}

func capped(strategy backoff.Strategy, maxBackoff time.Duration, attempts uint) time.Duration {
	if delay := strategy(attempts); delay < maxBackoff {
		return delay
	}
	return maxBackoff
}
