package delivery

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"chesspress/internal/target"
)

// RateLimited wraps a Deliverer with a per-target token bucket so a
// burst of fires cannot trip a platform's API limits. Waiting respects
// the delivery context's deadline.
type RateLimited struct {
	next    Deliverer
	perSec  float64
	burst   int
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewRateLimited(next Deliverer, perSec float64, burst int) *RateLimited {
	if perSec <= 0 {
		perSec = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		perSec:  perSec,
		burst:   burst,
		buckets: map[string]*rate.Limiter{},
	}
}

func (r *RateLimited) limiter(id string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.buckets[id]
	if !ok {
		l = rate.NewLimiter(rate.Limit(r.perSec), r.burst)
		r.buckets[id] = l
	}
	return l
}

func (r *RateLimited) Deliver(ctx context.Context, t target.Target, p Payload) error {
	if err := r.limiter(t.ID).Wait(ctx); err != nil {
		return err
	}
	return r.next.Deliver(ctx, t, p)
}
