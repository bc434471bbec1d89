// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DialOption configures transports
type DialOption func(*dialOptions)

type dialOptions struct {
	codec       Codec
	headers     http.Header
	queryParams url.Values
	async       bool
	timeout     time.Duration
	httpClient  *http.Client
	log         *zap.Logger
}

func newDialOptions(opts []DialOption) *dialOptions {
	o := &dialOptions{
		codec:       DefaultCodec,
		headers:     http.Header{},
		queryParams: url.Values{},
		timeout:     30 * time.Second,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCodec sets the request/response codec
func WithCodec(c Codec) DialOption {
	return func(o *dialOptions) { o.codec = c }
}

// WithHeader adds an HTTP header to every request
func WithHeader(key, value string) DialOption {
	return func(o *dialOptions) { o.headers.Add(key, value) }
}

// WithQueryParam adds a query parameter to the endpoint URL
func WithQueryParam(key, value string) DialOption {
	return func(o *dialOptions) { o.queryParams.Add(key, value) }
}

// WithAsync makes Execute return immediately and finish the round trip on a
// goroutine. Calls on an async transport must not be passed to Resolve.
func WithAsync() DialOption {
	return func(o *dialOptions) { o.async = true }
}

// WithTimeout bounds a single round trip. Zero disables the bound.
func WithTimeout(d time.Duration) DialOption {
	return func(o *dialOptions) { o.timeout = d }
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) DialOption {
	return func(o *dialOptions) { o.httpClient = c }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) DialOption {
	return func(o *dialOptions) {
		if l != nil {
			o.log = l
		}
	}
}
