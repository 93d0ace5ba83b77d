package download

import (
	"context"

	"github.com/fwojciec/fontdl"
	"golang.org/x/time/rate"
)

var _ fontdl.Limiter = (*RateLimiter)(nil)

// RateLimiter paces provider requests using a token bucket with a burst
// of 1 (no bursting allowed).
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new RateLimiter allowing rps requests per second.
// A non-positive rps allows every request immediately.
func NewRateLimiter(rps float64) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the rate limit allows a request.
// Returns an error if the context is canceled before the wait completes.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
