// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tomtom215/deputyrec/internal/api"
	"github.com/tomtom215/deputyrec/internal/config"
	"github.com/tomtom215/deputyrec/internal/logging"
	"github.com/tomtom215/deputyrec/internal/supervisor"
	"github.com/tomtom215/deputyrec/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("format", cfg.Dataset.Format).
		Str("backend", cfg.Recommend.Backend).
		Bool("enrich_enabled", cfg.Enrich.Enabled).
		Msg("Starting deputyrec")

	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*)")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("deputyrec stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires the components and blocks until shutdown.
func run(cfg *config.Config) error {
	logger := logging.Logger()

	enrichment, err := initEnrichment(cfg, logger)
	if err != nil {
		return fmt.Errorf("init enrichment: %w", err)
	}
	defer enrichment.Close()

	handler := api.NewHandler(api.HandlerConfig{
		ResponseCacheSize: cfg.Recommend.ResponseCacheSize,
		ResponseCacheTTL:  cfg.Recommend.ResponseCacheTTL,
	}, logger)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security), logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), treeCfg)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel(nil)
		case <-ctx.Done():
		}
	}()

	loader := &modelLoader{
		cfg:        cfg,
		handler:    handler,
		enrichment: enrichment,
		tree:       tree,
		logger:     logger,
	}
	tree.AddDataService(services.NewModelService(loader.Load, services.ModelServiceConfig{
		OnGiveUp: func(err error) { cancel(fmt.Errorf("model unavailable: %w", err)) },
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Server.ShutdownTimeout, logger))

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}
