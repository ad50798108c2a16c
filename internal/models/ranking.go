// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

// RankingEntry is one position in a movie ranking. Community rankings
// fill the users_* fields; provider rankings fill the tmdb_* fields and
// the descriptive metadata.
type RankingEntry struct {
	Rank         int     `json:"rank"`
	MovieID      int64   `json:"movie_tmdb_id"`
	Title        string  `json:"title,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	UsersAverage float64 `json:"users_average,omitempty"`
	TotalRatings int     `json:"total_ratings,omitempty"`
	TMDBRating   float64 `json:"tmdb_rating,omitempty"`
	TMDBVotes    int     `json:"tmdb_votes,omitempty"`
}

// RankingSource identifies where a ranking's ordering comes from.
type RankingSource string

const (
	RankingSourceUsers RankingSource = "users"
	RankingSourceTMDB  RankingSource = "tmdb"
)

// RankingPage is one page of a ranking.
type RankingPage struct {
	Rankings     []RankingEntry `json:"rankings"`
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Source       RankingSource  `json:"source"`
	MinRatings   int            `json:"min_ratings_required,omitempty"`
}
