package httputil

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle is a client-side token bucket shared by every call to one
// platform. A nil Throttle never blocks.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perSecond requests on average with bursts of up to
// burst. perSecond <= 0 disables throttling.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if perSecond <= 0 {
		return &Throttle{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))}
}

// Wait blocks until a token is available or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}
