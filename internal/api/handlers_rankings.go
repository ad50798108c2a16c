// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"math"
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

const (
	defaultRankingLimit      = 20
	maxRankingLimit          = 100
	defaultRankingMinRatings = 5
)

// UsersTopRatedRanking ranks movies by the community's average rating.
// Movies need min_ratings ratings (default 5) to qualify; ties go to
// the more-rated movie.
func (h *Handler) UsersTopRatedRanking(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, limit := rankingParams(r)
	minRatings := queryInt(r, "min_ratings", defaultRankingMinRatings)
	if minRatings < 1 {
		minRatings = 1
	}

	entries, total, err := h.db.UsersTopRated(r.Context(), minRatings, (page-1)*limit, limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	if entries == nil {
		entries = []models.RankingEntry{}
	}

	rw.Success(models.RankingPage{
		Rankings:     entries,
		Page:         page,
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
		TotalResults: total,
		Source:       models.RankingSourceUsers,
		MinRatings:   minRatings,
	})
}

// TMDBTopRatedRanking projects the provider's top-rated chart into
// ranking rows, with the community average converted to the local
// 5-point scale.
func (h *Handler) TMDBTopRatedRanking(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, _ := rankingParams(r)
	result, err := h.metadata.TopRated(r.Context(), page)
	if err != nil {
		h.storeError(rw, err)
		return
	}

	entries := make([]models.RankingEntry, 0, len(result.Results))
	rank := (result.Page-1)*20 + 1
	for _, m := range result.Results {
		entries = append(entries, models.RankingEntry{
			Rank:         rank,
			MovieID:      m.ID,
			Title:        m.Title,
			PosterPath:   m.PosterPath,
			BackdropPath: m.BackdropPath,
			ReleaseDate:  m.ReleaseDate,
			Overview:     m.Overview,
			TMDBRating:   math.Round(m.LocalRating()*10) / 10,
			TMDBVotes:    m.VoteCount,
		})
		rank++
	}

	rw.Success(models.RankingPage{
		Rankings:     entries,
		Page:         result.Page,
		TotalPages:   result.TotalPages,
		TotalResults: result.TotalResults,
		Source:       models.RankingSourceTMDB,
	})
}

func rankingParams(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(r, "limit", defaultRankingLimit)
	if limit < 1 {
		limit = defaultRankingLimit
	}
	if limit > maxRankingLimit {
		limit = maxRankingLimit
	}
	return page, limit
}
