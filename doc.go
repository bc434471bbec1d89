// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ethrpc is the client-side call pipeline for Ethereum JSON-RPC nodes.
//
// A binding renders its arguments as positional params, picks a method name,
// dispatches through a Transport and types the outcome with a Call:
//
//	t, err := ethrpc.Dial(ctx, "http://localhost:8545")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	version, err := ethrpc.Execute[string](ctx, t, "net_version").Await(ctx)
//
// # Scheduling models
//
// Under a normal Go program, calls are awaited with Call.Await and may be in
// flight concurrently on independent transport handles (WithAsync runs the
// round trip on a goroutine).
//
// In a deterministic host whose I/O primitives block, the default synchronous
// transports finish the round trip before Execute returns, and Resolve
// extracts the result with a single poll:
//
//	hash, err := ethrpc.Execute[common.Hash](ctx, t, "web3_sha3", data).Resolve()
//
// Resolve panics with ErrNotReady if the call has not completed; it never
// blocks.
//
// # Errors
//
// A call yields its result or exactly one of:
//
//   - *TransportError: the I/O boundary failed (dial, status code, URL)
//   - *DecodeError: the bytes are not an envelope, or the result has the wrong shape
//   - *RPCError: the node ran the method and reported a failure
//
// Nothing is retried. A parameter that cannot be marshaled panics.
//
// # Wire format
//
//	request:  {"jsonrpc":"2.0","id":0,"method":"net_version","params":[]}
//	response: {"id":0,"result":...} or {"id":0,"error":{"code":-32000,"message":"..."}}
//
// The id is always 0: a transport handle tracks one outstanding call and
// never multiplexes.
//
// # Architecture
//
//   - codec.go: envelope encoding and decoding
//   - transport.go: Transport contract, Pending and the scheme registry
//   - call.go: Call, the typed adapter bindings return
//   - resolve.go: single-poll resolution for scheduler-less hosts
//   - http.go, ipc.go: HTTP and stream transports
//   - dial.go: Dial by URL scheme
//   - dial_grpc.go: gRPC transport (requires -tags grpc)
//   - middleware.go, config.go: logging, rate limits, YAML config
//
// Package rpctest provides a scriptable Transport and an HTTP test node.
package ethrpc
