// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrClosed            = errors.New("ethrpc: transport closed")
	ErrNotReady          = errors.New("ethrpc: pending call resolved before completion")
	ErrCallConsumed      = errors.New("ethrpc: call result already consumed")
	ErrEmptyResponse     = errors.New("ethrpc: response has neither result nor error")
	ErrAmbiguousResponse = errors.New("ethrpc: response has both result and error")
	ErrResultType        = errors.New("ethrpc: result has unexpected type")
)

// TransportError is an I/O-boundary failure: the request never reached the
// node, or the node's answer never made it back as an envelope.
type TransportError struct {
	// StatusCode is the non-2xx HTTP status, zero for other failures.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("transport: status code %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport: received status code: %d", e.StatusCode)
	default:
		return fmt.Sprintf("transport: %v", e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports bytes that are not a valid envelope, or a result whose
// shape does not match the expected type.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RPCError is an application-level failure reported by the node.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}
