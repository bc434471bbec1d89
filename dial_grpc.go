//go:build grpc

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCMethod is the unary method that carries envelopes verbatim.
const GRPCMethod = "/ethrpc.JSONRPC/Call"

func init() {
	// Register gRPC transport when build tag is enabled
	registerTransport(TransportGRPC, dialGRPC)
}

// RawCodec moves envelope bytes through gRPC without re-encoding them.
// Messages must be *[]byte.
type RawCodec struct{}

func (RawCodec) Marshal(v any) ([]byte, error) {
	b, ok := v.(*[]byte)
	if !ok {
		return nil, fmt.Errorf("raw codec: cannot marshal %T", v)
	}
	return *b, nil
}

func (RawCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: cannot unmarshal into %T", v)
	}
	*b = append((*b)[:0], data...)
	return nil
}

func (RawCodec) Name() string { return "ethrpc-raw" }

func dialGRPC(_ context.Context, target string, o *dialOptions) (Transport, error) {
	uri, err := url.Parse(target)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to parse url: %w", err)}
	}
	conn, err := grpc.NewClient(uri.Host,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(RawCodec{})),
	)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("grpc dial: %w", err)}
	}
	return &GRPC{conn: conn, codec: o.codec, async: o.async, timeout: o.timeout, log: o.log}, nil
}

// GRPC sends each envelope as a unary call on GRPCMethod.
type GRPC struct {
	conn    *grpc.ClientConn
	codec   Codec
	async   bool
	timeout time.Duration
	log     *zap.Logger
}

func (g *GRPC) Execute(ctx context.Context, method string, params []any) *Pending {
	body := g.codec.EncodeRequest(method, params)
	g.log.Debug("dispatching request", zap.String("method", method), zap.String("target", g.conn.Target()))
	call := func() ([]byte, error) {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		var resp []byte
		if err := g.conn.Invoke(callCtx, GRPCMethod, &body, &resp); err != nil {
			g.log.Warn("request failed", zap.String("method", method), zap.Error(err))
			return nil, &TransportError{Err: fmt.Errorf("grpc invoke: %w", err)}
		}
		return resp, nil
	}
	if g.async {
		return Go(call).WithCodec(g.codec)
	}
	return Ready(call()).WithCodec(g.codec)
}

func (g *GRPC) Close() error {
	return g.conn.Close()
}
