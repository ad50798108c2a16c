// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// User is an account holder. PasswordHash never leaves the database layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRef is the compact actor shape embedded in activities and
// notifications.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
}

// Ref returns the compact reference for embedding.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// UserStats summarizes a user's catalogued activity. FavoriteGenre and
// MostWatchedYear are reserved and always null for now.
type UserStats struct {
	TotalRatings    int      `json:"total_ratings"`
	TotalReviews    int      `json:"total_reviews"`
	TotalLists      int      `json:"total_lists"`
	MoviesRated     int      `json:"movies_rated"`
	AverageRating   *float64 `json:"average_rating"`
	FavoriteGenre   *string  `json:"favorite_genre"`
	MostWatchedYear *int     `json:"most_watched_year"`
}
