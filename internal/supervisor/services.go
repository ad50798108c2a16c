// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/notify"
)

// HTTPService runs an http.Server under supervision. On context
// cancellation the server drains in-flight requests before returning.
type HTTPService struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

// NewHTTPService wraps the server for the supervisor tree.
func NewHTTPService(server *http.Server, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service.
func (s *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	logging.Info().Str("addr", s.server.Addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("http server shutdown incomplete")
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *HTTPService) String() string { return "http-server" }

// HubService ties the notification registry's lifetime to the
// supervisor tree. When the tree stops, every subscriber channel is
// closed so streaming handlers unwind.
type HubService struct {
	registry *notify.Registry
}

// NewHubService wraps the registry for the supervisor tree.
func NewHubService(registry *notify.Registry) *HubService {
	return &HubService{registry: registry}
}

// Serve implements suture.Service.
func (s *HubService) Serve(ctx context.Context) error {
	logging.Info().Msg("notification hub started")
	<-ctx.Done()
	s.registry.Close()
	logging.Info().Msg("notification hub stopped")
	return ctx.Err()
}

func (s *HubService) String() string { return "notification-hub" }
