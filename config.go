// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// Config describes an endpoint in a YAML file:
//
//	url: http://localhost:8545
//	timeout: 10s
//	headers:
//	  Authorization: Bearer xyz
//	omitVersion: false
//	emptyResultAsNull: false
//	async: false
//	rateLimit: 20
//	burst: 5
type Config struct {
	URL               string            `yaml:"url"`
	Timeout           time.Duration     `yaml:"timeout"`
	Headers           map[string]string `yaml:"headers"`
	OmitVersion       bool              `yaml:"omitVersion"`
	EmptyResultAsNull bool              `yaml:"emptyResultAsNull"`
	Async             bool              `yaml:"async"`
	RateLimit         float64           `yaml:"rateLimit"`
	Burst             int               `yaml:"burst"`
}

// LoadConfig reads a YAML config file
func LoadConfig(path string) (*Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(f)
}

// ParseConfig decodes YAML config bytes
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	if config.URL == "" {
		return nil, errors.New("config: url is required")
	}
	if config.RateLimit < 0 || config.Burst < 0 {
		return nil, errors.New("config: rateLimit and burst must not be negative")
	}
	return &config, nil
}

// Codec returns the codec the config selects
func (c *Config) Codec() Codec {
	return Codec{
		OmitVersion:       c.OmitVersion,
		EmptyResultAsNull: c.EmptyResultAsNull,
	}
}

// DialOptions converts the config to dial options. Explicit opts passed to
// DialConfig are applied after these and win.
func (c *Config) DialOptions() []DialOption {
	opts := []DialOption{WithCodec(c.Codec())}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.Async {
		opts = append(opts, WithAsync())
	}
	for k, v := range c.Headers {
		opts = append(opts, WithHeader(k, v))
	}
	return opts
}

// DialConfig dials the configured endpoint and applies the configured rate
// limit.
func DialConfig(ctx context.Context, c *Config, opts ...DialOption) (Transport, error) {
	t, err := Dial(ctx, c.URL, append(c.DialOptions(), opts...)...)
	if err != nil {
		return nil, err
	}
	if c.RateLimit > 0 {
		burst := c.Burst
		if burst == 0 {
			burst = 1
		}
		t = Wrap(t, WithRateLimit(rate.NewLimiter(rate.Limit(c.RateLimit), burst)))
	}
	return t, nil
}
