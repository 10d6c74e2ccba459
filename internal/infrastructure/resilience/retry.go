package resilience

import (
	"context"
	"time"
)

// backoffSchedule returns the waits between consecutive attempts: one entry fewer
// than the attempt budget, growing by the multiplier and capped at the max backoff.
func backoffSchedule(cfg Config) []time.Duration {
	if cfg.RetryMaxAttempts <= 1 {
		return nil
	}
	waits := make([]time.Duration, 0, cfg.RetryMaxAttempts-1)
	next := cfg.RetryInitialBackoff
	for range cfg.RetryMaxAttempts - 1 {
		waits = append(waits, min(next, cfg.RetryMaxBackoff))
		next = min(time.Duration(float64(next)*cfg.RetryMultiplier), cfg.RetryMaxBackoff)
	}
	return waits
}

func (e *Executor) retry(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classifier ErrorClassifier,
) error {
	waits := backoffSchedule(e.cfg)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt > len(waits) || !classifier(err).Retryable {
			return err
		}

		wait := waits[attempt-1]
		e.logger.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", len(waits)+1,
			"backoff_ms", wait.Milliseconds(),
			"error", err,
		)
		if e.hooks.OnRetry != nil {
			e.hooks.OnRetry(operation, attempt)
		}
		if !sleep(ctx, wait) {
			return err
		}
	}
}

// sleep waits for d and reports false when ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
