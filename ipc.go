// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// IPC exchanges envelopes with a node over a stream connection, typically a
// unix socket. One request is in flight per handle: the lock is held from
// write to read, so concurrent callers queue rather than multiplex. Hold
// several handles for concurrency.
//
// An I/O failure leaves the stream in an unknown position, so it closes the
// handle.
type IPC struct {
	conn    net.Conn
	dec     *json.Decoder
	mu      sync.Mutex
	closed  atomic.Bool
	codec   Codec
	async   bool
	timeout time.Duration
	log     *zap.Logger
}

var _ Transport = (*IPC)(nil)

// DialIPC connects to a node's IPC endpoint
func DialIPC(ctx context.Context, network, addr string, opts ...DialOption) (*IPC, error) {
	return dialStream(ctx, network, addr, newDialOptions(opts))
}

// NewIPC wraps an established connection
func NewIPC(conn net.Conn, opts ...DialOption) *IPC {
	return newIPC(conn, newDialOptions(opts))
}

func dialIPC(ctx context.Context, target string, o *dialOptions) (Transport, error) {
	uri, err := url.Parse(target)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to parse url: %w", err)}
	}
	switch uri.Scheme {
	case TransportTCP:
		return dialStream(ctx, "tcp", uri.Host, o)
	default:
		path := uri.Path
		if uri.Host != "" {
			path = uri.Host + uri.Path
		}
		return dialStream(ctx, "unix", path, o)
	}
}

func dialStream(ctx context.Context, network, addr string, o *dialOptions) (*IPC, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("ipc dial: %w", err)}
	}
	return newIPC(conn, o), nil
}

func newIPC(conn net.Conn, o *dialOptions) *IPC {
	return &IPC{
		conn:    conn,
		dec:     json.NewDecoder(conn),
		codec:   o.codec,
		async:   o.async,
		timeout: o.timeout,
		log:     o.log,
	}
}

func (c *IPC) Execute(ctx context.Context, method string, params []any) *Pending {
	body := c.codec.EncodeRequest(method, params)
	c.log.Debug("dispatching request",
		zap.String("method", method),
		zap.Stringer("addr", c.conn.RemoteAddr()),
	)
	if c.async {
		return Go(func() ([]byte, error) {
			return c.roundTrip(ctx, method, body)
		}).WithCodec(c.codec)
	}
	return Ready(c.roundTrip(ctx, method, body)).WithCodec(c.codec)
}

func (c *IPC) roundTrip(ctx context.Context, method string, body []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, &TransportError{Err: ErrClosed}
	}

	// nothing written yet, the stream is still aligned
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Err: err}
	}

	deadline, ok := ctx.Deadline()
	if c.timeout > 0 {
		if t := time.Now().Add(c.timeout); !ok || t.Before(deadline) {
			deadline, ok = t, true
		}
	}
	if ok {
		_ = c.conn.SetDeadline(deadline)
	}
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = c.conn.SetDeadline(time.Now())
	})
	defer func() {
		// a running callback must land before the reset
		if !stop() {
			<-fired
		}
		_ = c.conn.SetDeadline(time.Time{})
	}()

	if _, err := c.conn.Write(append(body, '\n')); err != nil {
		return nil, c.fail(method, fmt.Errorf("ipc write: %w", err))
	}
	var raw json.RawMessage
	if err := c.dec.Decode(&raw); err != nil {
		return nil, c.fail(method, fmt.Errorf("ipc read: %w", err))
	}
	return raw, nil
}

func (c *IPC) fail(method string, err error) error {
	c.log.Warn("request failed", zap.String("method", method), zap.Error(err))
	_ = c.Close()
	return &TransportError{Err: err}
}

// Close closes the connection
func (c *IPC) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}
