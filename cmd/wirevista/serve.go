// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wirevista/wirevista/internal/auth"
	"github.com/wirevista/wirevista/internal/config"
	"github.com/wirevista/wirevista/internal/httpapi"
	"github.com/wirevista/wirevista/internal/logging"
	"github.com/wirevista/wirevista/internal/observability"
	"github.com/wirevista/wirevista/internal/store"
	"github.com/wirevista/wirevista/pkg/errutil"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	flags := config.Flags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the admin service",
		Long: `Start the WireVista admin service: the authentication API,
the metrics/health endpoint, and the Redis-backed session store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, flags)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().AddFlagSet(flags)

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.SetDefault("wirevista", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting admin service",
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"redis_addr", cfg.RedisAddr,
		"log_format", cfg.LogFormat,
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The store is required for every stateful operation; an unreachable
	// store at startup is fatal rather than retried forever.
	kv, err := store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if closeErr := kv.Close(); closeErr != nil {
			errutil.LogError(logger, "failed to close redis client", closeErr)
		}
	}()

	logger.Info("connected to redis")

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	svc, err := auth.NewService(kv, kv, kv, tokens, auth.NewBcryptHasher(), logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	var metrics *observability.Metrics
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		obs := observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return kv.Ping(pingCtx) == nil
		})
		obsErrCh, err = obs.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		defer stopServer(obs.Stop, logger, "observability")
		metrics = obs.Metrics()
	}

	api, err := httpapi.NewServer(cfg.ListenAddr, svc, auth.NewRateLimiter(), kv, metrics, logger)
	if err != nil {
		return fmt.Errorf("failed to create api server: %w", err)
	}

	apiErrCh, err := api.Start()
	if err != nil {
		return fmt.Errorf("failed to start api server: %w", err)
	}
	defer stopServer(api.Stop, logger, "api")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-apiErrCh:
		return fmt.Errorf("api server failed: %w", err)
	case err := <-obsErrCh:
		return fmt.Errorf("observability server failed: %w", err)
	}
}

// stopServer shuts a server down with a bounded timeout, logging failures.
func stopServer(stop func(context.Context) error, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		errutil.LogError(logger, "failed to stop "+name+" server", err)
	}
}
