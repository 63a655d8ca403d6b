package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-survey-stats/internal/model"
)

var fastRetry = model.RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      time.Millisecond,
	MaxDelay:          5 * time.Millisecond,
	BackoffMultiplier: 2,
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, "write", func() error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, "write", func() error {
		calls++
		return errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetry, "write", func() error {
		calls++
		return model.ErrAlreadyWritten
	})
	assert.ErrorIs(t, err, model.ErrAlreadyWritten)
	assert.Equal(t, 1, calls)
}

func TestRetry_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := fastRetry
	slow.InitialDelay = time.Hour
	slow.MaxDelay = time.Hour

	err := Retry(ctx, slow, "write", func() error { return errTransient })
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBackoffDelay(t *testing.T) {
	cfg := model.RetryConfig{InitialDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond, BackoffMultiplier: 2}
	assert.Equal(t, 10*time.Millisecond, backoffDelay(cfg, 1))
	assert.Equal(t, 20*time.Millisecond, backoffDelay(cfg, 2))
	assert.Equal(t, 35*time.Millisecond, backoffDelay(cfg, 3))
}
