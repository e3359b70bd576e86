package middleware

import (
	"context"
	"time"

	"github.com/ovr/beamng-go/bngerr"
	"github.com/ovr/beamng-go/message"
)

// Timeout fails a call that outlives d with a TimeoutError.
//
// The abandoned exchange keeps running in its goroutine: the response, once
// it arrives, is consumed there or left in the connection's pending buffer.
// That is the documented cost of cancelling a Recv — the id's response is
// never proactively discarded.
func Timeout(d time.Duration) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, reqType string, fields []message.Field) (message.StrDict, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type result struct {
				dict message.StrDict
				err  error
			}
			done := make(chan result, 1)
			go func() {
				dict, err := next(ctx, reqType, fields)
				done <- result{dict, err}
			}()

			select {
			case r := <-done:
				return r.dict, r.err
			case <-ctx.Done():
				return nil, &bngerr.TimeoutError{Op: reqType, After: d}
			}
		}
	}
}
