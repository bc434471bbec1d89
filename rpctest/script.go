// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpctest provides scripted stand-ins for a JSON-RPC node.
//
// A Script holds a FIFO queue of canned responses and a log of the requests
// that consumed them. Transport replays the script in process; Node serves it
// over HTTP. Copies of either share one script, so the code under test and
// the test itself observe the same history.
//
//	tr := rpctest.NewTransport()
//	tr.SetResponse("Test123")
//	version, err := ethrpc.Execute[string](ctx, tr, "net_version").Resolve()
//	tr.AssertRequest(t, "net_version")
//	tr.AssertNoMoreRequests(t)
//
// Scripts are meant for a single test goroutine driving the code under test;
// the lock only keeps the race detector quiet when transports run async.
package rpctest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/luxfi/ethrpc"
)

// Request is one logged request.
type Request struct {
	Method string
	Body   []byte
}

type response struct {
	body   []byte
	status int
}

type fixture struct {
	mu        sync.Mutex
	requests  []Request
	responses []response
	asserted  int
}

// record logs a request and pops the next canned response.
func (f *fixture) record(method string, body []byte) (response, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, Request{Method: method, Body: body})
	if len(f.responses) == 0 {
		return response{}, false
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, true
}

func (f *fixture) set(r response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = []response{r}
}

func (f *fixture) add(r response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, r)
}

// next returns the first unasserted request and moves the cursor past it.
func (f *fixture) next() (Request, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.asserted
	if idx >= len(f.requests) {
		return Request{}, idx, false
	}
	f.asserted++
	return f.requests[idx], idx, true
}

// Script is the queueing and assertion half of a test double.
type Script struct {
	f *fixture
}

func newScript() Script {
	return Script{f: &fixture{}}
}

// SetResponse discards queued responses and queues a single success
// envelope carrying result.
func (s Script) SetResponse(result any) {
	s.f.set(response{body: successEnvelope(result)})
}

// AddResponse queues a success envelope carrying result.
func (s Script) AddResponse(result any) {
	s.f.add(response{body: successEnvelope(result)})
}

// SetError discards queued responses and queues a single error envelope.
func (s Script) SetError(code int, message string) {
	s.f.set(response{body: errorEnvelope(code, message)})
}

// AddError queues an error envelope.
func (s Script) AddError(code int, message string) {
	s.f.add(response{body: errorEnvelope(code, message)})
}

// SetRawResponse discards queued responses and queues body verbatim.
func (s Script) SetRawResponse(body []byte) {
	s.f.set(response{body: body})
}

// AddRawResponse queues body verbatim, for malformed envelopes.
func (s Script) AddRawResponse(body []byte) {
	s.f.add(response{body: body})
}

// AddStatus queues a transport failure with the given HTTP status code.
func (s Script) AddStatus(code int) {
	s.f.add(response{status: code})
}

// Queued returns the number of responses not consumed yet.
func (s Script) Queued() int {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return len(s.f.responses)
}

// Requests returns a snapshot of every logged request.
func (s Script) Requests() []Request {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	return append([]Request(nil), s.f.requests...)
}

// AssertRequest checks the next unasserted request against method and the
// JSON rendering of params. Params are compared structurally: order and
// field layout matter, formatting does not.
func (s Script) AssertRequest(t testing.TB, method string, params ...any) {
	t.Helper()
	if params == nil {
		params = []any{}
	}
	want, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("rpctest: cannot render expected params for %s: %v", method, err)
	}
	s.assertRequest(t, method, want)
}

// AssertRequestJSON is AssertRequest with the expected params given as a
// JSON array literal.
func (s Script) AssertRequestJSON(t testing.TB, method, params string) {
	t.Helper()
	s.assertRequest(t, method, []byte(params))
}

func (s Script) assertRequest(t testing.TB, method string, want []byte) {
	t.Helper()
	req, idx, ok := s.f.next()
	if !ok {
		t.Fatalf("rpctest: expected request %d (%s), but only %d were issued", idx, method, idx)
	}
	if req.Method != method {
		t.Fatalf("rpctest: request %d: method = %q, want %q", idx, req.Method, method)
	}

	var env struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(req.Body, &env); err != nil {
		t.Fatalf("rpctest: request %d (%s) is not valid JSON: %v", idx, method, err)
	}
	if env.Method != method {
		t.Fatalf("rpctest: request %d: rendered method = %q, want %q", idx, env.Method, method)
	}
	equal, err := jsonEqual(env.Params, want)
	if err != nil {
		t.Fatalf("rpctest: request %d (%s): %v", idx, method, err)
	}
	if !equal {
		t.Fatalf("rpctest: request %d (%s): params = %s, want %s", idx, method, env.Params, want)
	}
}

// AssertNoMoreRequests fails if any logged request has not been asserted.
func (s Script) AssertNoMoreRequests(t testing.TB) {
	t.Helper()
	s.f.mu.Lock()
	rest := append([]Request(nil), s.f.requests[s.f.asserted:]...)
	s.f.mu.Unlock()
	if len(rest) == 0 {
		return
	}
	lines := make([]string, len(rest))
	for i, r := range rest {
		lines[i] = string(r.Body)
	}
	t.Fatalf("rpctest: expected no more requests, got %d:\n%s", len(rest), strings.Join(lines, "\n"))
}

// jsonEqual compares decoded values. Numbers stay json.Number so integers
// beyond float64 precision are compared exactly.
func jsonEqual(got, want []byte) (bool, error) {
	g, err := decodeJSON(got)
	if err != nil {
		return false, fmt.Errorf("rendered params are not valid JSON: %w", err)
	}
	w, err := decodeJSON(want)
	if err != nil {
		return false, fmt.Errorf("expected params are not valid JSON: %w", err)
	}
	return reflect.DeepEqual(g, w), nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func successEnvelope(result any) []byte {
	b, err := json.Marshal(struct {
		ID     int `json:"id"`
		Result any `json:"result"`
	}{ethrpc.RequestID, result})
	if err != nil {
		panic(fmt.Sprintf("rpctest: cannot encode canned result: %v", err))
	}
	return b
}

func errorEnvelope(code int, message string) []byte {
	b, err := json.Marshal(struct {
		ID    int              `json:"id"`
		Error *ethrpc.RPCError `json:"error"`
	}{ethrpc.RequestID, &ethrpc.RPCError{Code: code, Message: message}})
	if err != nil {
		panic(fmt.Sprintf("rpctest: cannot encode canned error: %v", err))
	}
	return b
}
