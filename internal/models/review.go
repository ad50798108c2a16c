// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// Review is a user's long-form writeup for a movie. At most one per
// (user, movie).
type Review struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	MovieID          int64     `json:"movie_id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	ContainsSpoilers bool      `json:"contains_spoilers"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MovieReviewStats aggregates reviews for one movie.
type MovieReviewStats struct {
	MovieID         int64 `json:"movie_id"`
	TotalReviews    int   `json:"total_reviews"`
	WithSpoilers    int   `json:"with_spoilers"`
	WithoutSpoilers int   `json:"without_spoilers"`
}
