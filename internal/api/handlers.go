// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/config"
	"github.com/fkenzio/movie-social-backend/internal/database"
	"github.com/fkenzio/movie-social-backend/internal/feed"
	"github.com/fkenzio/movie-social-backend/internal/notify"
	"github.com/fkenzio/movie-social-backend/internal/recommend"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

// Metadata is the slice of the provider client the handlers use.
type Metadata interface {
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
	Trending(ctx context.Context, window string) (*tmdb.Page, error)
	TopRated(ctx context.Context, page int) (*tmdb.Page, error)
	Popular(ctx context.Context, page int) (*tmdb.Page, error)
	NowPlaying(ctx context.Context, page int) (*tmdb.Page, error)
	Search(ctx context.Context, query string, page int) (*tmdb.Page, error)
}

// Handler holds the dependencies shared by all endpoints.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	auth     *auth.Service
	metadata Metadata
	engine   *recommend.Engine
	feed     *feed.Aggregator
	notify   *notify.Service

	startedAt time.Time
}

// NewHandler wires the endpoint handlers.
func NewHandler(cfg *config.Config, db *database.DB, authService *auth.Service, metadata Metadata, engine *recommend.Engine, aggregator *feed.Aggregator, notifyService *notify.Service) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		auth:      authService,
		metadata:  metadata,
		engine:    engine,
		feed:      aggregator,
		notify:    notifyService,
		startedAt: time.Now(),
	}
}

// Health reports process liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	dbStatus := "up"
	if err := h.db.Ping(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "down"
	}

	rw.Success(map[string]interface{}{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// storeError maps store and provider sentinels onto envelope codes.
func (h *Handler) storeError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		rw.NotFound("resource not found")
	case errors.Is(err, database.ErrDuplicate):
		rw.Conflict("resource already exists")
	case errors.Is(err, database.ErrForbidden):
		rw.Forbidden("you do not have access to this resource")
	case errors.Is(err, tmdb.ErrNotFound):
		rw.NotFound("movie not found")
	case errors.Is(err, tmdb.ErrUnavailable):
		rw.UpstreamError(err)
	default:
		rw.DatabaseError(err)
	}
}
