// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api holds namespace bindings over an ethrpc.Transport. Each method
// renders its arguments, picks the method name and returns a typed Call.
package api

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/luxfi/ethrpc"
)

// Web3 is the web3 namespace
type Web3 struct {
	transport ethrpc.Transport
}

// NewWeb3 creates the web3 namespace over t
func NewWeb3(t ethrpc.Transport) *Web3 {
	return &Web3{transport: t}
}

// Net returns the net namespace on the same transport
func (w *Web3) Net() *Net {
	return NewNet(w.transport)
}

// ClientVersion returns the node's client version
func (w *Web3) ClientVersion(ctx context.Context) *ethrpc.Call[string] {
	return ethrpc.Execute[string](ctx, w.transport, "web3_clientVersion")
}

// Sha3 returns the Keccak-256 hash of data, computed by the node
func (w *Web3) Sha3(ctx context.Context, data hexutil.Bytes) *ethrpc.Call[common.Hash] {
	return ethrpc.Execute[common.Hash](ctx, w.transport, "web3_sha3", data)
}
