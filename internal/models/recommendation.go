// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

// RecommendationSource identifies how a recommendation was produced.
type RecommendationSource string

const (
	SourceCollaborative RecommendationSource = "collaborative"
	SourceTrending      RecommendationSource = "trending"
	SourceTopRated      RecommendationSource = "top_rated"
	SourceSimilar       RecommendationSource = "similar"
)

// Recommendation is one scored movie suggestion. Score is 0..100.
type Recommendation struct {
	MovieID         int64                `json:"movie_id"`
	Title           string               `json:"title"`
	PosterPath      string               `json:"poster_path,omitempty"`
	BackdropPath    string               `json:"backdrop_path,omitempty"`
	ReleaseDate     string               `json:"release_date,omitempty"`
	Overview        string               `json:"overview,omitempty"`
	CommunityRating *float64             `json:"community_rating,omitempty"`
	Score           float64              `json:"score"`
	Source          RecommendationSource `json:"source"`
	Reason          string               `json:"reason"`
}

// SimilarUser pairs a neighbour with their taste similarity to the target.
type SimilarUser struct {
	UserID     int64   `json:"user_id"`
	Similarity float64 `json:"similarity"`
}
