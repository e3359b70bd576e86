package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/ovr/beamng-go/bngerr"
	"github.com/ovr/beamng-go/message"
)

// Retry re-issues a call up to maxRetries times with exponential backoff.
//
// Only timeout-kind failures are retried: disconnection is terminal for the
// connection, and simulator errors are deterministic outcomes that retrying
// cannot change.
func Retry(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, reqType string, fields []message.Field) (message.StrDict, error) {
			resp, err := next(ctx, reqType, fields)
			for i := 0; i < maxRetries; i++ {
				var timeout *bngerr.TimeoutError
				if err == nil || !errors.As(err, &timeout) {
					return resp, err
				}
				select {
				case <-time.After(baseDelay * time.Duration(1<<i)):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				resp, err = next(ctx, reqType, fields)
			}
			return resp, err
		}
	}
}
