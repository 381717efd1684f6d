package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/mfreirec/leyescrawler/internal/infra/crawler/chrome"
	"github.com/mfreirec/leyescrawler/param"
)

// Delay is the backoff before the attempt following `attempt` (1-based):
// BaseDelay * BackoffFactor^(attempt-1).
func Delay(policy param.Retry, attempt int) time.Duration {
	if attempt <= 1 {
		return policy.BaseDelay
	}
	factor := math.Pow(policy.BackoffFactor, float64(attempt-1))
	return time.Duration(float64(policy.BaseDelay) * factor)
}

// Transient reports whether err is worth retrying. Session loss and
// cancellation are fatal; everything else the browser surfaces is assumed to
// be a flake, bounded by the retry policy.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if chrome.IsSessionLost(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

// Retry runs op under the policy: transient failures back off and retry up
// to MaxAttempts, fatal failures propagate immediately, and exhaustion
// surfaces as *RetryExhaustedError wrapping the last failure.
func Retry(ctx context.Context, policy param.Retry, op func(context.Context) error) error {
	var last error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !Transient(err) {
			return err
		}
		last = err
		if attempt == policy.MaxAttempts {
			break
		}
		timer := time.NewTimer(Delay(policy, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return &RetryExhaustedError{Attempts: policy.MaxAttempts, Last: last}
}
