// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// ActivityType identifies the kind of feed entry.
type ActivityType string

const (
	ActivityRating ActivityType = "rating"
	ActivityReview ActivityType = "review"
	ActivityList   ActivityType = "list"
)

// Activity is one normalized feed entry. ID is synthetic
// ("rating_42", "review_7", "list_3") and unique within a feed page.
type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Actor     UserRef      `json:"actor"`
	CreatedAt time.Time    `json:"created_at"`

	Movie *ActivityMovie `json:"movie,omitempty"`

	// Rating payload.
	Rating *float64 `json:"rating,omitempty"`

	// Review payload.
	ReviewTitle      string `json:"review_title,omitempty"`
	ReviewPreview    string `json:"review_preview,omitempty"`
	ContainsSpoilers *bool  `json:"contains_spoilers,omitempty"`

	// List payload.
	ListName        string `json:"list_name,omitempty"`
	ListDescription string `json:"list_description,omitempty"`

	Interactions *InteractionStats `json:"interactions,omitempty"`
}

// ActivityMovie is movie metadata attached to a feed entry. CommunityRating
// is the provider's 10-point average converted to the local 5-point scale.
type ActivityMovie struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	PosterPath      string   `json:"poster_path,omitempty"`
	BackdropPath    string   `json:"backdrop_path,omitempty"`
	ReleaseDate     string   `json:"release_date,omitempty"`
	CommunityRating *float64 `json:"community_rating,omitempty"`
}

// FeedPage is one page of merged activities. TotalItems counts entries in
// the current aggregation window, not the all-time total.
type FeedPage struct {
	Activities []Activity `json:"activities"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}
