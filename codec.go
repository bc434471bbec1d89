// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/rpc/v2/json2"
)

const (
	// Version is the protocol tag written into every request unless
	// Codec.OmitVersion is set.
	Version = "2.0"

	// RequestID is the correlation id of every request. A transport handle
	// tracks a single outstanding call, so the id never varies.
	RequestID = 0
)

// Codec renders request envelopes and parses response envelopes.
// The zero value is the strict default.
type Codec struct {
	// OmitVersion drops the "jsonrpc" tag from requests, for nodes that
	// predate it.
	OmitVersion bool

	// EmptyResultAsNull decodes a response carrying neither result nor
	// error as a successful null result instead of a DecodeError.
	EmptyResultAsNull bool
}

// DefaultCodec is used when no codec is specified.
var DefaultCodec = Codec{}

// request field order is the wire order.
type request struct {
	Version string `json:"jsonrpc,omitempty"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// EncodeRequest renders method and params into a request envelope. Params are
// positional. A parameter that cannot be marshaled is a programming error and
// panics.
func (c Codec) EncodeRequest(method string, params []any) []byte {
	if params == nil {
		params = []any{}
	}
	req := request{
		ID:     RequestID,
		Method: method,
		Params: params,
	}
	if !c.OmitVersion {
		req.Version = Version
	}
	b, err := json.Marshal(&req)
	if err != nil {
		panic(fmt.Sprintf("ethrpc: failed to encode %s request: %v", method, err))
	}
	return b
}

// DecodeResponse parses a response envelope. A result is unmarshaled into
// reply, an error object is returned as *RPCError and anything that is not a
// well-formed envelope is returned as *DecodeError.
func (c Codec) DecodeResponse(data []byte, reply any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &DecodeError{Err: errors.New("empty response body")}
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return &DecodeError{Err: fmt.Errorf("failed to decode the rpc response: %w", err)}
	}

	hasError := env.Error != nil && !bytes.Equal(env.Error, []byte("null"))
	// a null result next to an error is the error
	hasResult := env.Result != nil && !(hasError && bytes.Equal(env.Result, []byte("null")))
	switch {
	case hasResult && hasError:
		return &DecodeError{Err: ErrAmbiguousResponse}
	case !hasResult && !hasError:
		if c.EmptyResultAsNull {
			return nil
		}
		return &DecodeError{Err: ErrEmptyResponse}
	case hasResult && reply == nil:
		return nil
	}

	err := json2.DecodeClientResponse(bytes.NewReader(trimmed), reply)
	if err == nil || errors.Is(err, json2.ErrNullResult) {
		// "result": null is a present, null result
		return nil
	}
	var jerr *json2.Error
	if errors.As(err, &jerr) {
		return newRPCError(jerr)
	}
	return &DecodeError{Err: fmt.Errorf("failed to decode the rpc result: %w", err)}
}

func newRPCError(jerr *json2.Error) *RPCError {
	rerr := &RPCError{
		Code:    int(jerr.Code),
		Message: jerr.Message,
	}
	if jerr.Data != nil {
		if data, err := json.Marshal(jerr.Data); err == nil {
			rerr.Data = data
		}
	}
	return rerr
}

// EncodeRequest renders a request with DefaultCodec.
func EncodeRequest(method string, params []any) []byte {
	return DefaultCodec.EncodeRequest(method, params)
}

// DecodeResponse parses a response with DefaultCodec.
func DecodeResponse(data []byte, reply any) error {
	return DefaultCodec.DecodeResponse(data, reply)
}
