// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command ethcall issues one JSON-RPC call and prints the raw result.
//
//	ethcall -url http://localhost:8545 net_version
//	ethcall -config node.yaml web3_sha3 '["0x01020304"]'
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/ethrpc"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ethcall:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ethcall", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML endpoint config")
	endpoint := fs.String("url", "", "endpoint URL, overrides the config")
	timeout := fs.Duration("timeout", 30*time.Second, "round trip timeout, overrides the config")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		return errors.New("usage: ethcall [flags] method [paramsJSON]")
	}

	log, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	config := &ethrpc.Config{}
	if *configPath != "" {
		if config, err = ethrpc.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	if *endpoint != "" {
		config.URL = *endpoint
	}
	if config.URL == "" {
		return errors.New("no endpoint: pass -url or -config")
	}
	timeoutSet := false
	fs.Visit(func(f *flag.Flag) {
		timeoutSet = timeoutSet || f.Name == "timeout"
	})
	if timeoutSet || config.Timeout == 0 {
		config.Timeout = *timeout
	}

	params, err := parseParams(fs.Arg(1))
	if err != nil {
		return err
	}

	t, err := ethrpc.DialConfig(ctx, config, ethrpc.WithLogger(log))
	if err != nil {
		return err
	}
	if c, ok := t.(io.Closer); ok {
		defer c.Close()
	}
	t = ethrpc.Wrap(t, ethrpc.WithLogging(log))

	method := fs.Arg(0)
	result, err := ethrpc.Execute[json.RawMessage](ctx, t, method, params...).Await(ctx)
	if err != nil {
		var rpcErr *ethrpc.RPCError
		if errors.As(err, &rpcErr) {
			return fmt.Errorf("%s failed with code %d: %s", method, rpcErr.Code, rpcErr.Message)
		}
		return err
	}
	if len(result) == 0 {
		result = json.RawMessage("null")
	}
	_, err = fmt.Fprintln(out, string(result))
	return err
}

// parseParams reads a JSON array of positional params.
func parseParams(arg string) ([]any, error) {
	if arg == "" {
		return nil, nil
	}
	var params []json.RawMessage
	if err := json.Unmarshal([]byte(arg), &params); err != nil {
		return nil, fmt.Errorf("params must be a JSON array: %w", err)
	}
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
