// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Dial creates a transport for rawurl, selected by its scheme:
//
//	http://, https://        HTTP
//	ipc://, unix://, or path IPC over a unix socket
//	tcp://                   IPC framing over TCP
//	grpc://                  gRPC (requires -tags grpc)
func Dial(ctx context.Context, rawurl string, opts ...DialOption) (Transport, error) {
	return dial(ctx, rawurl, newDialOptions(opts))
}

func dial(ctx context.Context, rawurl string, o *dialOptions) (Transport, error) {
	scheme := TransportIPC
	if strings.Contains(rawurl, "://") {
		uri, err := url.Parse(rawurl)
		if err != nil {
			return nil, &TransportError{Err: fmt.Errorf("failed to parse url: %w", err)}
		}
		scheme = strings.ToLower(uri.Scheme)
	} else {
		rawurl = "ipc://" + rawurl
	}

	dialer, ok := lookupTransport(scheme)
	if !ok {
		return nil, &TransportError{Err: fmt.Errorf("unknown transport: %s", scheme)}
	}
	return dialer(ctx, rawurl, o)
}
