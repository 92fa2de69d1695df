// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values for serve flags.
const (
	DefaultListenAddr  = ":3001"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultRedisAddr   = "127.0.0.1:6379"
	DefaultLogFormat   = "json"
)

// Config is the resolved service configuration.
type Config struct {
	ListenAddr    string `koanf:"listen_addr"`
	MetricsAddr   string `koanf:"metrics_addr"`
	LogFormat     string `koanf:"log_format"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	JWTSecret     string `koanf:"jwt_secret"`
}

// Validate checks that the configuration can run the service. A missing
// signing secret is a fatal misconfiguration, never worked around.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.RedisAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("redis_addr is required")
	}
	if c.JWTSecret == "" {
		return oops.Code("CONFIG_MISSING_SECRET").Errorf("jwt_secret is required (flag, config file, or JWT_SECRET)")
	}
	return nil
}

// Flags returns the serve flag set whose values feed into Load.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	f.String("listen-addr", DefaultListenAddr, "API listen address")
	f.String("metrics-addr", DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	f.String("log-format", DefaultLogFormat, "log format (json or text)")
	f.String("redis-addr", DefaultRedisAddr, "redis address")
	f.String("redis-password", "", "redis password (or REDIS_PASSWORD)")
	f.String("jwt-secret", "", "token signing secret (or JWT_SECRET)")
	return f
}

// Load resolves configuration: flag defaults, then the YAML file at path
// (if non-empty), then explicitly set flags. Secrets left empty fall back
// to the JWT_SECRET and REDIS_PASSWORD environment variables.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	// Flag keys use dashes; config keys use underscores. Explicitly set
	// flags override the file, flag defaults fill remaining gaps.
	provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
		return strings.ReplaceAll(key, "-", "_"), value
	})
	if err := k.Load(provider, nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	}

	return &cfg, nil
}
