// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Middleware decorates a Transport.
type Middleware func(next Transport) Transport

// Chain composes middlewares; the first one is outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Transport) Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Wrap applies middlewares to t.
func Wrap(t Transport, middlewares ...Middleware) Transport {
	return Chain(middlewares...)(t)
}

// WithLogging logs every dispatch and its outcome.
func WithLogging(log *zap.Logger) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, method string, params []any) *Pending {
			start := time.Now()
			p := next.Execute(ctx, method, params)
			p.afterDone(func() {
				fields := []zap.Field{
					zap.String("method", method),
					zap.Int("params", len(params)),
					zap.Duration("duration", time.Since(start)),
				}
				if p.err != nil {
					log.Warn("rpc call failed", append(fields, zap.Error(p.err))...)
					return
				}
				log.Debug("rpc call completed", fields...)
			})
			return p
		})
	}
}

// WithRateLimit delays each dispatch until limiter allows it. A wait that
// cannot be satisfied before ctx ends completes with a *TransportError.
func WithRateLimit(limiter *rate.Limiter) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, method string, params []any) *Pending {
			if err := limiter.Wait(ctx); err != nil {
				return Ready(nil, &TransportError{Err: err})
			}
			return next.Execute(ctx, method, params)
		})
	}
}

// WithDeadline bounds each dispatch by d.
func WithDeadline(d time.Duration) Middleware {
	return func(next Transport) Transport {
		return TransportFunc(func(ctx context.Context, method string, params []any) *Pending {
			ctx, cancel := context.WithTimeout(ctx, d)
			p := next.Execute(ctx, method, params)
			p.afterDone(cancel)
			return p
		})
	}
}
