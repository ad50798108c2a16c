// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
)

// CreateReview writes the caller's review for a movie. A second review
// for the same movie is rejected.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createReviewRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	review, err := h.db.CreateReview(r.Context(), middleware.UserID(r.Context()), req.MovieID, req.Title, req.Content, req.ContainsSpoilers)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Created(review)
}

// Review returns one review by id.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reviewID, ok := pathID(rw, r, "reviewID")
	if !ok {
		return
	}

	review, err := h.db.GetReview(r.Context(), reviewID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(review)
}

// UpdateReview edits the caller's review.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reviewID, ok := pathID(rw, r, "reviewID")
	if !ok {
		return
	}

	var req updateReviewRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	review, err := h.db.UpdateReview(r.Context(), middleware.UserID(r.Context()), reviewID, req.Title, req.Content, req.ContainsSpoilers)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(review)
}

// DeleteReview removes the caller's review.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	reviewID, ok := pathID(rw, r, "reviewID")
	if !ok {
		return
	}

	if err := h.db.DeleteReview(r.Context(), middleware.UserID(r.Context()), reviewID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}

// MovieReviews lists reviews for a movie, optionally filtered by the
// spoilers flag.
func (h *Handler) MovieReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	var spoilers *bool
	if v, present := queryBool(r, "spoilers"); present {
		spoilers = &v
	}

	p := h.paginationParams(r)
	reviews, err := h.db.ListMovieReviews(r.Context(), movieID, spoilers, p.Skip, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(reviews)
}

// MovieReviewStats returns the review aggregate for a movie.
func (h *Handler) MovieReviewStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	stats, err := h.db.GetMovieReviewStats(r.Context(), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(stats)
}

// UserReviews lists a user's reviews.
func (h *Handler) UserReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := pathID(rw, r, "userID")
	if !ok {
		return
	}

	p := h.paginationParams(r)
	reviews, err := h.db.ListUserReviews(r.Context(), userID, p.Skip, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(reviews)
}

// MyMovieReview returns the caller's review for a movie.
func (h *Handler) MyMovieReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	review, err := h.db.GetUserMovieReview(r.Context(), middleware.UserID(r.Context()), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(review)
}
