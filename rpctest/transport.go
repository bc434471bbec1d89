// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpctest

import (
	"context"
	"fmt"

	"github.com/luxfi/ethrpc"
)

// Transport is an ethrpc.Transport that answers from its Script. Every call
// completes before Execute returns, so results can be taken with Resolve.
type Transport struct {
	Script
	codec ethrpc.Codec
}

var _ ethrpc.Transport = Transport{}

// NewTransport returns a Transport with an empty script.
func NewTransport() Transport {
	return Transport{Script: newScript()}
}

// WithCodec returns a copy that renders and decodes with c. The copy shares
// the script.
func (t Transport) WithCodec(c ethrpc.Codec) Transport {
	t.codec = c
	return t
}

// Execute logs the rendered request and pops the next canned response.
// Running out of responses means the test queued too few and panics.
func (t Transport) Execute(_ context.Context, method string, params []any) *ethrpc.Pending {
	body := t.codec.EncodeRequest(method, params)
	resp, ok := t.f.record(method, body)
	if !ok {
		panic(fmt.Sprintf("rpctest: no response queued for %s", method))
	}
	if resp.status != 0 {
		return ethrpc.Ready(nil, &ethrpc.TransportError{StatusCode: resp.status}).WithCodec(t.codec)
	}
	return ethrpc.Ready(resp.body, nil).WithCodec(t.codec)
}
