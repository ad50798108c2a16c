// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// MovieList is a user-curated collection of movies.
type MovieList struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	IsPublic        bool      `json:"is_public"`
	IsCollaborative bool      `json:"is_collaborative"`
	MoviesCount     int       `json:"movies_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListMovie is one entry in a list, ordered by Position.
type ListMovie struct {
	ListID   int64     `json:"list_id"`
	MovieID  int64     `json:"movie_id"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"added_at"`
}
