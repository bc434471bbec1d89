// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/luxfi/ethrpc"
)

// Net is the net namespace
type Net struct {
	transport ethrpc.Transport
}

// NewNet creates the net namespace over t
func NewNet(t ethrpc.Transport) *Net {
	return &Net{transport: t}
}

// Version returns the network id
func (n *Net) Version(ctx context.Context) *ethrpc.Call[string] {
	return ethrpc.Execute[string](ctx, n.transport, "net_version")
}

// PeerCount returns the number of peers connected to the node
func (n *Net) PeerCount(ctx context.Context) *ethrpc.Call[*hexutil.Big] {
	return ethrpc.Execute[*hexutil.Big](ctx, n.transport, "net_peerCount")
}

// Listening reports whether the node is listening for network connections
func (n *Net) Listening(ctx context.Context) *ethrpc.Call[bool] {
	return ethrpc.Execute[bool](ctx, n.transport, "net_listening")
}
