package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ovr/beamng-go/message"
)

// RateLimit paces outgoing simulator commands with a token bucket.
//
// Wait blocks instead of rejecting, so a burst of control commands is
// smoothed rather than dropped — a tight control loop should slow down, not
// lose inputs.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next Invoker) Invoker {
		return func(ctx context.Context, reqType string, fields []message.Field) (message.StrDict, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return next(ctx, reqType, fields)
		}
	}
}
