package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrRetryable marks an error as transient; Retry re-attempts the
// operation when the returned error wraps it.
var ErrRetryable = errors.New("retryable error")

// RetryConfig configures retry behavior for read-only RPC calls.
// Writes (transaction broadcasts) are never retried.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts (including initial)
	BaseDelay   time.Duration // Initial delay between retries
	MaxDelay    time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns 3 attempts with delays 500ms, 1s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Retry executes the operation with exponential backoff using the
// default configuration.
func Retry[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	return RetryWithConfig(ctx, DefaultRetryConfig(), operation)
}

// RetryWithConfig executes the operation with the specified retry
// configuration. Only errors wrapping ErrRetryable trigger a retry.
func RetryWithConfig[T any](ctx context.Context, cfg RetryConfig, operation func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err = operation()
		if err == nil {
			return result, nil
		}

		if !IsRetryable(err) {
			return result, err
		}

		if attempt < cfg.MaxAttempts-1 {
			delay := backoffDelay(attempt, cfg.BaseDelay, cfg.MaxDelay)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return result, fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, err)
}

// backoffDelay computes exponential backoff with jitter in [delay/2, delay).
func backoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay * (1 << attempt)
	if delay > maxDelay {
		delay = maxDelay
	}
	half := delay / 2
	return half + rand.N(half) //nolint:gosec // G404: jitter does not require cryptographic randomness
}

// IsRetryable returns true if the error should trigger a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRetryable) || errors.Is(err, context.DeadlineExceeded)
}

// WrapRetryable marks an error as retryable. Context cancellation is
// left alone so a canceled update never spins.
func WrapRetryable(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRetryable, err)
}
