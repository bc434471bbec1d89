// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Call is a dispatched request typed to its expected result. Every binding
// returns one. Its outcome can be observed once, with Await or Resolve.
//
// Dropping a Call before it completes only stops the caller from seeing the
// result; I/O the transport already dispatched is not retracted.
type Call[T any] struct {
	pending  *Pending
	consumed atomic.Bool
}

// NewCall types a Pending.
func NewCall[T any](p *Pending) *Call[T] {
	return &Call[T]{pending: p}
}

// Execute dispatches method on t and types the outcome as T.
func Execute[T any](ctx context.Context, t Transport, method string, params ...any) *Call[T] {
	return NewCall[T](t.Execute(ctx, method, params))
}

// Done is closed once the underlying request completes.
func (c *Call[T]) Done() <-chan struct{} {
	return c.pending.Done()
}

// Await waits for the request to complete and returns its decoded result.
// If ctx ends first, ctx.Err() is returned and the Call can still be awaited
// later.
func (c *Call[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-c.pending.done:
		return c.take()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// take decodes the completed outcome. Exactly one decode attempt is made.
func (c *Call[T]) take() (T, error) {
	var result T
	if !c.consumed.CompareAndSwap(false, true) {
		return result, ErrCallConsumed
	}
	p := c.pending
	if p.err != nil {
		return result, p.err
	}
	if p.typed {
		if p.value == nil {
			return result, nil
		}
		v, ok := p.value.(T)
		if !ok {
			return result, &DecodeError{Err: fmt.Errorf("%w: got %T, want %T", ErrResultType, p.value, result)}
		}
		return v, nil
	}
	if err := p.codec.DecodeResponse(p.raw, &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
