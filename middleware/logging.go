package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ovr/beamng-go/message"
)

// Logging records each request's type, duration, and outcome.
func Logging(log *zap.Logger) Middleware {
	return func(next Invoker) Invoker {
		return func(ctx context.Context, reqType string, fields []message.Field) (message.StrDict, error) {
			start := time.Now()
			resp, err := next(ctx, reqType, fields)
			if err != nil {
				log.Warn("request failed",
					zap.String("type", reqType),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err))
			} else {
				log.Debug("request finished",
					zap.String("type", reqType),
					zap.Duration("elapsed", time.Since(start)))
			}
			return resp, err
		}
	}
}
