package http

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

var _ Interceptor = (*RateLimitInterceptor)(nil)

// RateLimitInterceptor provides per-host rate limiting using token buckets.
// It creates a separate rate limiter for each host, allowing concurrent
// requests to different hosts while enforcing rate limits within each host.
type RateLimitInterceptor struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewRateLimitInterceptor creates a RateLimitInterceptor with the specified
// requests per second limit. Each host gets its own limiter with a burst of 1.
func NewRateLimitInterceptor(rps float64) *RateLimitInterceptor {
	return &RateLimitInterceptor{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (i *RateLimitInterceptor) Wait(ctx context.Context, host string) error {
	i.mu.Lock()
	limiter, ok := i.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(i.rps), 1)
		i.limiters[host] = limiter
	}
	i.mu.Unlock()

	return limiter.Wait(ctx)
}

// BeforeSend waits for the request's host.
func (i *RateLimitInterceptor) BeforeSend(ctx context.Context, _ *http.Client, req *http.Request) error {
	return i.Wait(ctx, req.URL.Hostname())
}

// AfterReceive accepts every response.
func (i *RateLimitInterceptor) AfterReceive(context.Context, *http.Client, *Response, int) (Decision, error) {
	return Accept, nil
}
