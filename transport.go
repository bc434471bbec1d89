// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"sort"
	"sync"
)

// Transport dispatches one request and hands back its pending outcome.
//
// Params are positional and must be JSON-marshalable; their order has to
// match the remote method's signature, which this layer cannot check.
// Implementations report I/O failures by completing the Pending with a
// *TransportError. Handles meant for concurrent use must be cheap to copy,
// with every copy routing to the same underlying channel.
type Transport interface {
	Execute(ctx context.Context, method string, params []any) *Pending
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, method string, params []any) *Pending

func (f TransportFunc) Execute(ctx context.Context, method string, params []any) *Pending {
	return f(ctx, method, params)
}

// Pending is the outcome of one dispatched request. It completes exactly once
// with either raw envelope bytes or an already-decoded value.
type Pending struct {
	done  chan struct{}
	codec Codec
	raw   []byte
	value any
	typed bool
	err   error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Ready returns a completed Pending holding raw envelope bytes.
func Ready(raw []byte, err error) *Pending {
	p := newPending()
	p.complete(raw, nil, false, err)
	return p
}

// ReadyValue returns a completed Pending holding a decoded value, for
// transports that decode responses themselves.
func ReadyValue(v any, err error) *Pending {
	p := newPending()
	p.complete(nil, v, true, err)
	return p
}

// Go runs fn on its own goroutine and completes the Pending with its raw
// envelope bytes when fn returns.
func Go(fn func() ([]byte, error)) *Pending {
	p := newPending()
	go func() {
		raw, err := fn()
		p.complete(raw, nil, false, err)
	}()
	return p
}

// GoValue is Go for transports that decode responses themselves.
func GoValue(fn func() (any, error)) *Pending {
	p := newPending()
	go func() {
		v, err := fn()
		p.complete(nil, v, true, err)
	}()
	return p
}

func (p *Pending) complete(raw []byte, v any, typed bool, err error) {
	p.raw, p.value, p.typed, p.err = raw, v, typed, err
	close(p.done)
}

// WithCodec sets the codec used to decode raw bytes. It must be called before
// the Pending is handed to a Call.
func (p *Pending) WithCodec(c Codec) *Pending {
	p.codec = c
	return p
}

// Done is closed once the Pending completes.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Ready polls once without blocking.
func (p *Pending) Ready() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// afterDone runs fn once p completes, inline when it already has.
func (p *Pending) afterDone(fn func()) {
	if p.Ready() {
		fn()
		return
	}
	go func() {
		<-p.done
		fn()
	}()
}

// Transport schemes
const (
	TransportHTTP  = "http"
	TransportHTTPS = "https"
	TransportIPC   = "ipc"
	TransportUnix  = "unix"
	TransportTCP   = "tcp"
	TransportGRPC  = "grpc" // requires build tag
)

type dialFunc func(ctx context.Context, target string, o *dialOptions) (Transport, error)

var (
	transportsMu sync.RWMutex
	transports   = map[string]dialFunc{
		TransportHTTP:  dialHTTP,
		TransportHTTPS: dialHTTP,
		TransportIPC:   dialIPC,
		TransportUnix:  dialIPC,
		TransportTCP:   dialIPC,
	}
)

// registerTransport registers a new transport (used by build tags)
func registerTransport(scheme string, dial dialFunc) {
	transportsMu.Lock()
	defer transportsMu.Unlock()
	transports[scheme] = dial
}

func lookupTransport(scheme string) (dialFunc, bool) {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	dial, ok := transports[scheme]
	return dial, ok
}

// AvailableTransports returns the registered schemes in sorted order
func AvailableTransports() []string {
	transportsMu.RLock()
	defer transportsMu.RUnlock()
	result := make([]string, 0, len(transports))
	for name := range transports {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// HasTransport checks if a transport is available
func HasTransport(scheme string) bool {
	_, ok := lookupTransport(scheme)
	return ok
}
