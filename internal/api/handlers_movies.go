// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"
	"strings"
)

// Movie returns the provider details for one movie.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	movie, err := h.metadata.GetMovie(r.Context(), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(movie)
}

// SearchMovies proxies a title search to the provider.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		rw.BadRequest("query is required")
		return
	}

	page, err := h.metadata.Search(r.Context(), query, queryInt(r, "page", 1))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(page)
}

// TrendingMovies returns the provider's trending page.
func (h *Handler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := h.metadata.Trending(r.Context(), r.URL.Query().Get("window"))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(page)
}

// TopRatedMovies returns the provider's top rated page.
func (h *Handler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := h.metadata.TopRated(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(page)
}

// PopularMovies returns the provider's popular page.
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := h.metadata.Popular(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(page)
}

// NowPlayingMovies returns the provider's now playing page.
func (h *Handler) NowPlayingMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, err := h.metadata.NowPlaying(r.Context(), queryInt(r, "page", 1))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(page)
}
