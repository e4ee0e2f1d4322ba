package chain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Barneybot002/monad-testbot/internal/chain"
)

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	calls := 0
	result, err := chain.Retry(context.Background(), func() (int, error) {
		calls++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestRetry_RetriesRetryableErrors(t *testing.T) {
	t.Parallel()

	cfg := chain.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}

	calls := 0
	result, err := chain.RetryWithConfig(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", chain.WrapRetryable(errors.New("connection reset"))
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	t.Parallel()

	permanent := errors.New("execution reverted")
	calls := 0
	_, err := chain.Retry(context.Background(), func() (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	cfg := chain.RetryConfig{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		MaxDelay:    2 * time.Millisecond,
	}

	calls := 0
	_, err := chain.RetryWithConfig(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, chain.WrapRetryable(errors.New("timeout"))
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestRetry_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	cfg := chain.RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    time.Second,
	}

	calls := 0
	_, err := chain.RetryWithConfig(ctx, cfg, func() (int, error) {
		calls++
		cancel()
		return 0, chain.WrapRetryable(errors.New("slow"))
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWrapRetryable(t *testing.T) {
	t.Parallel()

	assert.NoError(t, chain.WrapRetryable(nil))
	assert.True(t, chain.IsRetryable(chain.WrapRetryable(errors.New("x"))))
	assert.True(t, chain.IsRetryable(context.DeadlineExceeded))
	assert.False(t, chain.IsRetryable(errors.New("x")))
	assert.False(t, chain.IsRetryable(nil))

	// Cancellation is never marked retryable.
	assert.False(t, chain.IsRetryable(chain.WrapRetryable(context.Canceled)))
}
