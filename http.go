// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// newHTTPClient creates an HTTP client with disabled connection reuse.
// Every call owns its own round trip.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DisableKeepAlives: true,
		},
	}
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}

// HTTP posts each request envelope to a JSON-RPC endpoint.
//
// By default the round trip completes before Execute returns, so its calls
// can be passed to Resolve. With WithAsync the round trip runs on a goroutine.
// An HTTP value is safe for concurrent use.
type HTTP struct {
	uri     string
	headers http.Header
	client  *http.Client
	codec   Codec
	async   bool
	log     *zap.Logger
}

var _ Transport = (*HTTP)(nil)

// NewHTTP creates an HTTP transport for rawurl. A malformed URL is reported as
// a *TransportError.
func NewHTTP(rawurl string, opts ...DialOption) (*HTTP, error) {
	return newHTTP(rawurl, newDialOptions(opts))
}

func dialHTTP(_ context.Context, target string, o *dialOptions) (Transport, error) {
	return newHTTP(target, o)
}

func newHTTP(rawurl string, o *dialOptions) (*HTTP, error) {
	uri, err := url.Parse(rawurl)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to parse url: %w", err)}
	}
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, &TransportError{Err: fmt.Errorf("unsupported url scheme %q", uri.Scheme)}
	}
	if uri.Host == "" {
		return nil, &TransportError{Err: fmt.Errorf("missing host in url %q", rawurl)}
	}
	if len(o.queryParams) > 0 {
		q := uri.Query()
		for k, vs := range o.queryParams {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		uri.RawQuery = q.Encode()
	}

	client := o.httpClient
	if client == nil {
		client = newHTTPClient(o.timeout)
	}
	return &HTTP{
		uri:     uri.String(),
		headers: o.headers.Clone(),
		client:  client,
		codec:   o.codec,
		async:   o.async,
		log:     o.log,
	}, nil
}

// URL returns the endpoint, including configured query parameters.
func (h *HTTP) URL() string {
	return h.uri
}

func (h *HTTP) Execute(ctx context.Context, method string, params []any) *Pending {
	body := h.codec.EncodeRequest(method, params)
	h.log.Debug("dispatching request",
		zap.String("method", method),
		zap.String("url", h.uri),
	)
	if h.async {
		return Go(func() ([]byte, error) {
			return h.post(ctx, method, body)
		}).WithCodec(h.codec)
	}
	return Ready(h.post(ctx, method, body)).WithCodec(h.codec)
}

func (h *HTTP) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, h.uri, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	request.Header = h.headers.Clone()
	request.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(request)
	if err != nil {
		h.log.Warn("request failed", zap.String("method", method), zap.Error(err))
		return nil, &TransportError{Err: fmt.Errorf("failed to issue request: %w", err)}
	}
	defer CleanlyCloseBody(resp.Body)

	// Return an error for any non successful status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Warn("unexpected status code",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return raw, nil
}
