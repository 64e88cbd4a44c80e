package meteostat

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to the weather API with a token bucket.
// A nil *Pacer never blocks.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer allows rps requests per second. rps <= 0 disables pacing and
// returns nil.
func NewPacer(rps float64) *Pacer {
	if rps <= 0 {
		return nil
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the next request may go out or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
