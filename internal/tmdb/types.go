// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package tmdb

// Movie is the provider's movie shape. VoteAverage is on the provider's
// 10-point scale; callers convert to the local 5-point scale.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	Runtime      int     `json:"runtime,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`

	Credits *Credits `json:"credits,omitempty"`
	Videos  *Videos  `json:"videos,omitempty"`
	Similar *Page    `json:"similar,omitempty"`
}

// Genre is one movie genre.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Credits holds a movie's cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one credited performer.
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one credited crew role.
type CrewMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Videos holds a movie's trailer and clip entries.
type Videos struct {
	Results []Video `json:"results"`
}

// Video is one trailer or clip.
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// Page is one page of provider movie results.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// LocalRating converts the provider's 10-point community average to the
// local 5-point scale.
func (m *Movie) LocalRating() float64 {
	return m.VoteAverage / 2
}
