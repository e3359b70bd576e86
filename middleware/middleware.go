// Package middleware provides caller-side wrappers around connection
// operations: logging, deadlines, retries, and command pacing.
//
// The connection itself never retries and never arms timers (spelled out in
// its caller contract); anything policy-shaped composes here instead.
package middleware

import (
	"context"

	"github.com/ovr/beamng-go/message"
	"github.com/ovr/beamng-go/transport"
)

// Invoker issues one request/response exchange with the simulator.
type Invoker func(ctx context.Context, reqType string, fields []message.Field) (message.StrDict, error)

// Middleware wraps an Invoker with additional behavior.
type Middleware func(next Invoker) Invoker

// Chain composes middlewares into one, with the first argument outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Invoker) Invoker {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap adapts a Connection's Request into an Invoker behind the given
// middlewares.
func Wrap(conn *transport.Connection, middlewares ...Middleware) Invoker {
	invoke := func(_ context.Context, reqType string, fields []message.Field) (message.StrDict, error) {
		return conn.Request(reqType, fields)
	}
	return Chain(middlewares...)(invoke)
}
