// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// Rating is a user's score for a movie on a 0.5-step scale from 1.0 to 5.0.
// One rating per (user, movie); re-rating overwrites.
type Rating struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRatingValue reports whether v is on the 1.0..5.0 half-step scale.
func ValidRatingValue(v float64) bool {
	if v < 1.0 || v > 5.0 {
		return false
	}
	doubled := v * 2
	return doubled == float64(int64(doubled))
}

// MovieRatingStats aggregates local ratings for one movie.
type MovieRatingStats struct {
	MovieID       int64          `json:"movie_id"`
	TotalRatings  int            `json:"total_ratings"`
	AverageRating *float64       `json:"average_rating"` // rounded to 1 decimal, null when unrated
	Distribution  map[string]int `json:"distribution"`   // buckets "1.0" .. "5.0"
}
