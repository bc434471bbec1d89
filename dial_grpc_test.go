//go:build grpc

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// startGRPC serves GRPCMethod by echoing the request method as the result.
func startGRPC(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	server := grpc.NewServer(
		grpc.ForceServerCodec(RawCodec{}),
		grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
			name, _ := grpc.MethodFromServerStream(stream)
			if name != GRPCMethod {
				return fmt.Errorf("unexpected method %s", name)
			}
			var body []byte
			if err := stream.RecvMsg(&body); err != nil {
				return err
			}
			var req struct {
				Method string `json:"method"`
			}
			if err := json.Unmarshal(body, &req); err != nil {
				return err
			}
			if req.Method == "test_hang" {
				<-stream.Context().Done()
				return stream.Context().Err()
			}
			resp := []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":0,"result":%q}`, req.Method))
			return stream.SendMsg(&resp)
		}),
	)
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)
	return "grpc://" + listener.Addr().String()
}

func TestGRPCRegistered(t *testing.T) {
	if !HasTransport(TransportGRPC) {
		t.Fatal("grpc transport not registered")
	}
}

func TestGRPCRoundTrip(t *testing.T) {
	target := startGRPC(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tr, err := Dial(ctx, target)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.(*GRPC).Close()

	got, err := Execute[string](ctx, tr, "net_version").Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "net_version" {
		t.Errorf("got %q, want %q", got, "net_version")
	}
}

func TestGRPCUnavailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tr, err := Dial(ctx, "grpc://"+addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.(*GRPC).Close()

	_, err = Execute[string](ctx, tr, "net_version").Resolve()
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("got %v, want *TransportError", err)
	}
}

func TestGRPCTimeout(t *testing.T) {
	target := startGRPC(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tr, err := Dial(ctx, target, WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer tr.(*GRPC).Close()

	start := time.Now()
	_, err = Execute[string](ctx, tr, "test_hang").Resolve()
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("got %v, want *TransportError", err)
	}
	if code := status.Code(errors.Unwrap(terr.Err)); code != codes.DeadlineExceeded {
		t.Errorf("got code %v, want %v", code, codes.DeadlineExceeded)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not applied: call took %v", elapsed)
	}
}
