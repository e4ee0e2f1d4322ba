package chain

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound RPC calls with a token bucket so the
// bot stays inside public endpoint budgets even when many users trade
// at once.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter allowing ratePerSecond requests with
// the given burst. Non-positive values fall back to the defaults.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// Wait blocks until a request is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed immediately.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
