// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// recommendLimit clamps the limit query parameter to 1..20, default 10.
func recommendLimit(r *http.Request, def, max int) int {
	limit := queryInt(r, "limit", def)
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// Recommendations serves personalized recommendations with trending
// fallback for thin histories.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := recommendLimit(r, h.cfg.Recommend.DefaultLimit, h.cfg.Recommend.MaxLimit)
	recs, err := h.engine.Personalized(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(recs)
}

// TrendingRecommendations serves the trending fallback directly.
func (h *Handler) TrendingRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := recommendLimit(r, h.cfg.Recommend.DefaultLimit, h.cfg.Recommend.MaxLimit)
	recs, err := h.engine.Trending(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(recs)
}

// TopRatedRecommendations serves the top-rated fallback directly.
func (h *Handler) TopRatedRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit := recommendLimit(r, h.cfg.Recommend.DefaultLimit, h.cfg.Recommend.MaxLimit)
	recs, err := h.engine.TopRated(r.Context(), middleware.UserID(r.Context()), limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(recs)
}

// SimilarMovieRecommendations recommends movies similar to the given one.
func (h *Handler) SimilarMovieRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	limit := recommendLimit(r, h.cfg.Recommend.DefaultLimit, h.cfg.Recommend.MaxLimit)
	recs, err := h.engine.SimilarToMovie(r.Context(), middleware.UserID(r.Context()), movieID, limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(recs)
}

// SimilarUsers returns the caller's taste neighbourhood.
func (h *Handler) SimilarUsers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	similar, err := h.engine.SimilarUsers(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	if similar == nil {
		similar = []models.SimilarUser{}
	}
	rw.Success(map[string]interface{}{"similar_users": similar})
}
