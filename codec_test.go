// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestEncodeRequestFieldOrder(t *testing.T) {
	got := string(EncodeRequest("eth_getBalance", []any{"0x407d73d8a49eeb85d32cf465507dd71d507100c1", "latest"}))
	want := `{"jsonrpc":"2.0","id":0,"method":"eth_getBalance","params":["0x407d73d8a49eeb85d32cf465507dd71d507100c1","latest"]}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeRequestOmitVersion(t *testing.T) {
	got := string(Codec{OmitVersion: true}.EncodeRequest("net_version", nil))
	want := `{"id":0,"method":"net_version","params":[]}`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeRequestRoundTrip(t *testing.T) {
	type callRequest struct {
		To    string `json:"to"`
		Value string `json:"value,omitempty"`
	}
	tests := []struct {
		method string
		params []any
	}{
		{"net_version", nil},
		{"web3_sha3", []any{"0x01020304"}},
		{"eth_getBlockByNumber", []any{"latest", true}},
		{"trace_call", []any{callRequest{To: "0x0000000000000000000000000000000000000123", Value: "0x1"}, []string{"trace"}, "latest"}},
		{"eth_feeHistory", []any{4, "latest", []float64{25, 75}}},
		{"eth_getLogs", []any{map[string]any{"fromBlock": "0x1", "topics": []any{nil, "0xabc"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var parsed struct {
				Version string            `json:"jsonrpc"`
				ID      *int              `json:"id"`
				Method  string            `json:"method"`
				Params  []json.RawMessage `json:"params"`
			}
			if err := json.Unmarshal(EncodeRequest(tt.method, tt.params), &parsed); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if parsed.Method != tt.method {
				t.Errorf("method: got %q, want %q", parsed.Method, tt.method)
			}
			if parsed.ID == nil || *parsed.ID != RequestID {
				t.Errorf("id: got %v, want %d", parsed.ID, RequestID)
			}
			if parsed.Version != Version {
				t.Errorf("jsonrpc: got %q, want %q", parsed.Version, Version)
			}
			if parsed.Params == nil {
				t.Fatal("params rendered as null")
			}
			if len(parsed.Params) != len(tt.params) {
				t.Fatalf("params: got %d, want %d", len(parsed.Params), len(tt.params))
			}
			for i, p := range tt.params {
				want, err := json.Marshal(p)
				if err != nil {
					t.Fatalf("Marshal: %v", err)
				}
				if string(parsed.Params[i]) != string(want) {
					t.Errorf("param %d: got %s, want %s", i, parsed.Params[i], want)
				}
			}
		})
	}
}

func TestEncodeRequestUnserializablePanics(t *testing.T) {
	for name, param := range map[string]any{
		"channel":  make(chan int),
		"infinity": math.Inf(1),
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			EncodeRequest("eth_call", []any{param})
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name    string
		codec   Codec
		data    string
		want    string
		rpcCode int
		rpcMsg  string
		decode  error // sentinel inside a *DecodeError, nil to only check the type
		isDec   bool
	}{
		{name: "result", data: `{"jsonrpc":"2.0","id":0,"result":"Test123"}`, want: "Test123"},
		{name: "result with null error", data: `{"id":0,"result":"ok","error":null}`, want: "ok"},
		{name: "null result", data: `{"id":0,"result":null}`, want: ""},
		{name: "error", data: `{"id":0,"error":{"code":-32000,"message":"boom"}}`, rpcCode: -32000, rpcMsg: "boom"},
		{name: "error with null result", data: `{"id":0,"result":null,"error":{"code":-32601,"message":"method not found"}}`, rpcCode: -32601, rpcMsg: "method not found"},
		{name: "truncated", data: `{"id":0,`, isDec: true},
		{name: "not an object", data: `"hello"`, isDec: true},
		{name: "array", data: `[{"id":0,"result":"x"}]`, isDec: true},
		{name: "empty body", data: ``, isDec: true},
		{name: "null body", data: `null`, isDec: true},
		{name: "both", data: `{"id":0,"result":"x","error":{"code":1,"message":"y"}}`, isDec: true, decode: ErrAmbiguousResponse},
		{name: "neither", data: `{"jsonrpc":"2.0","id":0}`, isDec: true, decode: ErrEmptyResponse},
		{name: "neither lenient", codec: Codec{EmptyResultAsNull: true}, data: `{"id":0}`, want: ""},
		{name: "wrong shape", data: `{"id":0,"result":{"a":1}}`, isDec: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			err := tt.codec.DecodeResponse([]byte(tt.data), &got)
			switch {
			case tt.rpcMsg != "":
				var rerr *RPCError
				if !errors.As(err, &rerr) {
					t.Fatalf("got %v, want *RPCError", err)
				}
				if rerr.Code != tt.rpcCode || rerr.Message != tt.rpcMsg {
					t.Errorf("got (%d, %q), want (%d, %q)", rerr.Code, rerr.Message, tt.rpcCode, tt.rpcMsg)
				}
			case tt.isDec:
				var derr *DecodeError
				if !errors.As(err, &derr) {
					t.Fatalf("got %v, want *DecodeError", err)
				}
				if tt.decode != nil && !errors.Is(err, tt.decode) {
					t.Errorf("got %v, want %v", err, tt.decode)
				}
			default:
				if err != nil {
					t.Fatalf("DecodeResponse: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeResponseTypedResults(t *testing.T) {
	var n uint64
	if err := DecodeResponse([]byte(`{"id":0,"result":291}`), &n); err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if n != 291 {
		t.Errorf("got %d, want 291", n)
	}

	var block struct {
		Number string   `json:"number"`
		Txs    []string `json:"transactions"`
	}
	data := `{"id":0,"result":{"number":"0x1b4","transactions":["0xaa","0xbb"]}}`
	if err := DecodeResponse([]byte(data), &block); err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if block.Number != "0x1b4" || len(block.Txs) != 2 {
		t.Errorf("got %+v", block)
	}

	var s string
	err := DecodeResponse([]byte(`{"id":0,"result":291}`), &s)
	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Errorf("got %v, want *DecodeError", err)
	}
}

func TestDecodeResponseErrorData(t *testing.T) {
	data := `{"id":0,"error":{"code":3,"message":"execution reverted","data":"0x08c379a0"}}`
	var out string
	err := DecodeResponse([]byte(data), &out)
	var rerr *RPCError
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v, want *RPCError", err)
	}
	if rerr.Code != 3 || rerr.Message != "execution reverted" {
		t.Errorf("got (%d, %q)", rerr.Code, rerr.Message)
	}
	if string(rerr.Data) != `"0x08c379a0"` {
		t.Errorf("data: got %s", rerr.Data)
	}
}

func TestDecodeResponseNonObjectError(t *testing.T) {
	var out string
	err := DecodeResponse([]byte(`{"id":0,"error":"node is syncing"}`), &out)
	var rerr *RPCError
	if !errors.As(err, &rerr) {
		t.Fatalf("got %v, want *RPCError", err)
	}
	if rerr.Code != -32000 {
		t.Errorf("code: got %d, want -32000", rerr.Code)
	}
}

func TestDecodeResponseNilReply(t *testing.T) {
	if err := DecodeResponse([]byte(`{"id":0,"result":true}`), nil); err != nil {
		t.Errorf("DecodeResponse: %v", err)
	}
	var rerr *RPCError
	if err := DecodeResponse([]byte(`{"id":0,"error":{"code":1,"message":"x"}}`), nil); !errors.As(err, &rerr) {
		t.Errorf("got %v, want *RPCError", err)
	}
}
