// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

// Resolve extracts the result of a Call without waiting, for hosts that have
// no scheduler and whose transports finish their I/O before Execute returns
// (a synchronous HTTP transport, or an IPC transport without WithAsync).
//
// The Call is polled exactly once. A Call that has not completed yet breaks
// that precondition and Resolve panics with ErrNotReady rather than block.
// Pairing Resolve with an asynchronous transport is a usage error.
func Resolve[T any](c *Call[T]) (T, error) {
	if !c.pending.Ready() {
		panic(ErrNotReady)
	}
	return c.take()
}

// Resolve is shorthand for Resolve(c).
func (c *Call[T]) Resolve() (T, error) {
	return Resolve(c)
}

// ResolvePending is Resolve for an untyped Pending. It returns the raw bytes
// or the decoded value, whichever shape the transport produced.
func ResolvePending(p *Pending) (raw []byte, value any, err error) {
	if !p.Ready() {
		panic(ErrNotReady)
	}
	return p.raw, p.value, p.err
}
