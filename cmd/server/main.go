// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Command server runs the Cinegraph API server.
//
// Startup order matters: configuration, logging, storage, the metadata
// client, then the domain services, and finally the supervisor tree
// holding the notification hub and the HTTP server. Shutdown reverses
// it: the tree drains streaming connections and in-flight requests
// before the database closes.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fkenzio/movie-social-backend/internal/api"
	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/config"
	"github.com/fkenzio/movie-social-backend/internal/database"
	"github.com/fkenzio/movie-social-backend/internal/feed"
	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/notify"
	"github.com/fkenzio/movie-social-backend/internal/recommend"
	"github.com/fkenzio/movie-social-backend/internal/supervisor"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logging.Info().Str("version", version).Msg("starting cinegraph server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("database close failed")
		}
	}()

	jwt, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("configure token signing: %w", err)
	}

	metadata := tmdb.New(&cfg.TMDB)
	registry := notify.NewRegistry()

	handler := api.NewHandler(
		cfg, db,
		auth.NewService(db, jwt),
		metadata,
		recommend.NewEngine(db, metadata, cfg.Recommend.MaxSimilarUsers),
		feed.NewAggregator(db, metadata),
		notify.NewService(db, metadata, registry),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, cfg, jwt).Setup(),
		ReadTimeout: cfg.Server.ReadTimeout,
		// No WriteTimeout: it would sever long-lived SSE and WebSocket
		// streams. Non-streaming handlers finish well within ReadTimeout.
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddStreamService(supervisor.NewHubService(registry))
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
		if err := <-errCh; err != nil && err != context.Canceled {
			return fmt.Errorf("supervisor shutdown: %w", err)
		}
		if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
			logging.Warn().Int("count", len(report)).Msg("services missed shutdown deadline")
		}

	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return fmt.Errorf("supervisor: %w", err)
		}
	}

	logging.Info().Msg("server stopped")
	return nil
}
