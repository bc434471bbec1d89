// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpctest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Node is an HTTP JSON-RPC endpoint that answers from its Script, for
// exercising real transports end to end. It is closed when the test ends.
type Node struct {
	Script
	server *httptest.Server
}

// NewNode starts a Node with an empty script.
func NewNode(t testing.TB) *Node {
	t.Helper()
	n := &Node{Script: newScript()}
	n.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var env struct {
			Method string `json:"method"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			http.Error(w, "malformed request", http.StatusBadRequest)
			return
		}
		resp, ok := n.f.record(env.Method, body)
		if !ok {
			t.Errorf("rpctest: no response queued for %s", env.Method)
			http.Error(w, "no response queued", http.StatusInternalServerError)
			return
		}
		if resp.status != 0 {
			http.Error(w, http.StatusText(resp.status), resp.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(resp.body)
	}))
	t.Cleanup(n.server.Close)
	return n
}

// URL returns the endpoint address.
func (n *Node) URL() string {
	return n.server.URL
}
