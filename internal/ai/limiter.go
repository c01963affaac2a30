package ai

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/kiranshivaraju/radassist/pkg/models"
)

// RateLimited wraps a Backend so outbound calls never exceed a fixed rate.
// Callers wait for a token instead of failing; a cancelled context aborts the wait.
type RateLimited struct {
	next    models.Backend
	limiter *rate.Limiter
}

// NewRateLimited allows rps calls per second with the given burst.
func NewRateLimited(next models.Backend, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimited) Name() string { return r.next.Name() }

func (r *RateLimited) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return models.GenerateResponse{}, fmt.Errorf("waiting for rate limiter: %w", ctx.Err())
		}
		// Wait also fails early when the deadline would pass before a token is available.
		return models.GenerateResponse{}, fmt.Errorf("%w: waiting for rate limiter: %v", ErrInferenceTimeout, err)
	}
	return r.next.Generate(ctx, req)
}

var _ models.Backend = (*RateLimited)(nil)
