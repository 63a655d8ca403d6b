package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go-survey-stats/internal/model"
)

// NonRetryableErrors stop a retry loop immediately.
var NonRetryableErrors = []error{
	model.ErrAlreadyWritten,
	context.Canceled,
	context.DeadlineExceeded,
}

// Retry calls op until it succeeds, returns a non-retryable error, the
// attempts in cfg run out, or ctx is done. The last error is returned.
func Retry(ctx context.Context, cfg model.RetryConfig, name string, op func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !isRetryableError(err) || attempt == attempts {
			break
		}

		delay := backoffDelay(cfg, attempt)
		slog.WarnContext(ctx, "retrying operation",
			"operation", name,
			"attempt", attempt,
			"max_attempts", attempts,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w (last error: %v)", name, ctx.Err(), err)
		case <-timer.C:
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// backoffDelay computes the wait after the given failed attempt, using
// exponential backoff capped at MaxDelay.
func backoffDelay(cfg model.RetryConfig, attempt int) time.Duration {
	multiplier := cfg.BackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func isRetryableError(err error) bool {
	for _, nonRetryable := range NonRetryableErrors {
		if errors.Is(err, nonRetryable) {
			return false
		}
	}
	return true
}
