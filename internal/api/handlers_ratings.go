// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
)

// RateMovie creates or overwrites the caller's rating for a movie.
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req rateMovieRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	rating, err := h.db.UpsertRating(r.Context(), middleware.UserID(r.Context()), req.MovieID, req.Rating)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(rating)
}

// MyRating returns the caller's rating for a movie.
func (h *Handler) MyRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	rating, err := h.db.GetRating(r.Context(), middleware.UserID(r.Context()), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(rating)
}

// DeleteRating removes the caller's rating for a movie.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	if err := h.db.DeleteRating(r.Context(), middleware.UserID(r.Context()), movieID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}

// MovieRatingStats returns the local rating aggregate for a movie.
func (h *Handler) MovieRatingStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	stats, err := h.db.GetMovieRatingStats(r.Context(), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(stats)
}

// MovieRatings returns recent ratings for a movie.
func (h *Handler) MovieRatings(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	p := h.paginationParams(r)
	ratings, err := h.db.ListRecentRatings(r.Context(), 0, movieID, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(ratings)
}
