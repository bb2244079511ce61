package provider

import (
	"context"

	"golang.org/x/time/rate"

	pilotErrors "github.com/cadre-oss/pilot/internal/errors"
)

// RateLimitProvider spaces calls to inner at a fixed requests-per-minute rate.
type RateLimitProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// NewRateLimitProvider allows perMinute calls per minute with a burst of one.
func NewRateLimitProvider(inner Provider, perMinute int) *RateLimitProvider {
	return &RateLimitProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

func (r *RateLimitProvider) Name() string {
	return r.inner.Name()
}

// Complete waits for a token, then delegates. A wait that cannot finish
// before ctx expires fails with RATE_LIMITED without calling inner.
func (r *RateLimitProvider) Complete(ctx context.Context, req *CompletionRequest) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, pilotErrors.Wrap(pilotErrors.CodeRateLimited, "local rate limit wait aborted", err)
	}
	return r.inner.Complete(ctx, req)
}
