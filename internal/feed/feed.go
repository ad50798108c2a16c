// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package feed aggregates recent ratings, reviews and lists into a
// single chronological activity stream, globally or per user.
package feed

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

// Over-fetch multipliers per source. Each source is pulled newest first
// with its own window so a burst in one source cannot starve the others.
const (
	globalRatingFactor = 3
	globalReviewFactor = 3
	globalListFactor   = 2

	userRatingFactor = 2
	userReviewFactor = 2
	userListFactor   = 1

	reviewPreviewLen = 200
)

// Store is the slice of the database the aggregator reads.
type Store interface {
	ListRecentRatings(ctx context.Context, userID, movieID int64, limit int) ([]models.Rating, error)
	ListRecentReviews(ctx context.Context, userID int64, limit int) ([]models.Review, error)
	ListRecentLists(ctx context.Context, userID int64, limit int) ([]models.MovieList, error)
	UserRefs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error)
	InteractionStatsFor(ctx context.Context, targetType models.TargetType, targetIDs []int64, viewerID int64) (map[int64]models.InteractionStats, error)
}

// Metadata resolves movie details for feed entries.
type Metadata interface {
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
}

// Aggregator builds activity feed pages.
type Aggregator struct {
	store    Store
	metadata Metadata
}

// NewAggregator creates a feed aggregator.
func NewAggregator(store Store, metadata Metadata) *Aggregator {
	return &Aggregator{store: store, metadata: metadata}
}

// Global returns the community-wide feed page. viewerID personalizes the
// interaction flags; zero means anonymous.
func (a *Aggregator) Global(ctx context.Context, viewerID int64, page, pageSize int) (*models.FeedPage, error) {
	window := pageSize * page
	return a.build(ctx, 0, viewerID, page, pageSize,
		window*globalRatingFactor, window*globalReviewFactor, window*globalListFactor)
}

// User returns one user's activity feed page.
func (a *Aggregator) User(ctx context.Context, userID, viewerID int64, page, pageSize int) (*models.FeedPage, error) {
	window := pageSize * page
	return a.build(ctx, userID, viewerID, page, pageSize,
		window*userRatingFactor, window*userReviewFactor, window*userListFactor)
}

func (a *Aggregator) build(ctx context.Context, userID, viewerID int64, page, pageSize, ratingWindow, reviewWindow, listWindow int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}

	ratings, err := a.store.ListRecentRatings(ctx, userID, 0, ratingWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent ratings: %w", err)
	}
	reviews, err := a.store.ListRecentReviews(ctx, userID, reviewWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}
	lists, err := a.store.ListRecentLists(ctx, userID, listWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent lists: %w", err)
	}

	actors, err := a.resolveActors(ctx, ratings, reviews, lists)
	if err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(ratings)+len(reviews)+len(lists))
	activities = append(activities, a.fromRatings(ctx, ratings, actors)...)
	activities = append(activities, a.fromReviews(ctx, reviews, actors)...)
	activities = append(activities, a.fromLists(lists, actors)...)

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})

	total := len(activities)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	pageItems := activities[start:end]
	if err := a.attachInteractions(ctx, pageItems, viewerID); err != nil {
		return nil, err
	}

	return &models.FeedPage{
		Activities: pageItems,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func (a *Aggregator) resolveActors(ctx context.Context, ratings []models.Rating, reviews []models.Review, lists []models.MovieList) (map[int64]models.UserRef, error) {
	idSet := make(map[int64]bool)
	for _, r := range ratings {
		idSet[r.UserID] = true
	}
	for _, r := range reviews {
		idSet[r.UserID] = true
	}
	for _, l := range lists {
		idSet[l.UserID] = true
	}

	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	refs, err := a.store.UserRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve actors: %w", err)
	}
	return refs, nil
}

func (a *Aggregator) fromRatings(ctx context.Context, ratings []models.Rating, actors map[int64]models.UserRef) []models.Activity {
	activities := make([]models.Activity, 0, len(ratings))
	for _, r := range ratings {
		movie := a.movieFor(ctx, r.MovieID)
		if movie == nil {
			continue
		}
		value := r.Rating
		activities = append(activities, models.Activity{
			ID:        fmt.Sprintf("rating_%d", r.ID),
			Type:      models.ActivityRating,
			Actor:     actors[r.UserID],
			CreatedAt: r.CreatedAt,
			Movie:     movie,
			Rating:    &value,
		})
	}
	return activities
}

func (a *Aggregator) fromReviews(ctx context.Context, reviews []models.Review, actors map[int64]models.UserRef) []models.Activity {
	activities := make([]models.Activity, 0, len(reviews))
	for _, r := range reviews {
		movie := a.movieFor(ctx, r.MovieID)
		if movie == nil {
			continue
		}
		spoilers := r.ContainsSpoilers
		activities = append(activities, models.Activity{
			ID:               fmt.Sprintf("review_%d", r.ID),
			Type:             models.ActivityReview,
			Actor:            actors[r.UserID],
			CreatedAt:        r.CreatedAt,
			Movie:            movie,
			ReviewTitle:      r.Title,
			ReviewPreview:    preview(r.Content, reviewPreviewLen),
			ContainsSpoilers: &spoilers,
		})
	}
	return activities
}

func (a *Aggregator) fromLists(lists []models.MovieList, actors map[int64]models.UserRef) []models.Activity {
	activities := make([]models.Activity, 0, len(lists))
	for _, l := range lists {
		activities = append(activities, models.Activity{
			ID:              fmt.Sprintf("list_%d", l.ID),
			Type:            models.ActivityList,
			Actor:           actors[l.UserID],
			CreatedAt:       l.CreatedAt,
			ListName:        l.Name,
			ListDescription: l.Description,
		})
	}
	return activities
}

// movieFor returns feed metadata for a movie, or nil when the provider
// cannot describe it. Entries without metadata are dropped.
func (a *Aggregator) movieFor(ctx context.Context, movieID int64) *models.ActivityMovie {
	movie, err := a.metadata.GetMovie(ctx, movieID)
	if err != nil {
		logging.Ctx(ctx).Warn().Int64("movie_id", movieID).Err(err).Msg("dropping feed entry without movie metadata")
		return nil
	}
	m := &models.ActivityMovie{
		ID:           movie.ID,
		Title:        movie.Title,
		PosterPath:   movie.PosterPath,
		BackdropPath: movie.BackdropPath,
		ReleaseDate:  movie.ReleaseDate,
	}
	if movie.VoteAverage > 0 {
		local := movie.LocalRating()
		m.CommunityRating = &local
	}
	return m
}

// attachInteractions joins like and comment counts onto the sliced
// page, one batched store call per target type present on it.
func (a *Aggregator) attachInteractions(ctx context.Context, page []models.Activity, viewerID int64) error {
	var ratingIDs, reviewIDs, listIDs []int64
	for i := range page {
		id, ok := entityID(page[i])
		if !ok {
			continue
		}
		switch page[i].Type {
		case models.ActivityRating:
			ratingIDs = append(ratingIDs, id)
		case models.ActivityReview:
			reviewIDs = append(reviewIDs, id)
		case models.ActivityList:
			listIDs = append(listIDs, id)
		}
	}

	ratingStats, err := a.statsFor(ctx, models.TargetRating, ratingIDs, viewerID)
	if err != nil {
		return err
	}
	reviewStats, err := a.statsFor(ctx, models.TargetReview, reviewIDs, viewerID)
	if err != nil {
		return err
	}
	listStats, err := a.statsFor(ctx, models.TargetList, listIDs, viewerID)
	if err != nil {
		return err
	}

	byActivityID := make(map[string]models.InteractionStats)
	for id, s := range ratingStats {
		byActivityID[fmt.Sprintf("rating_%d", id)] = s
	}
	for id, s := range reviewStats {
		byActivityID[fmt.Sprintf("review_%d", id)] = s
	}
	for id, s := range listStats {
		byActivityID[fmt.Sprintf("list_%d", id)] = s
	}

	for i := range page {
		if s, ok := byActivityID[page[i].ID]; ok {
			stat := s
			page[i].Interactions = &stat
		}
	}
	return nil
}

// entityID recovers the numeric entity id from a synthetic activity id
// such as "rating_42".
func entityID(act models.Activity) (int64, bool) {
	_, raw, found := strings.Cut(act.ID, "_")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (a *Aggregator) statsFor(ctx context.Context, targetType models.TargetType, ids []int64, viewerID int64) (map[int64]models.InteractionStats, error) {
	if len(ids) == 0 {
		return map[int64]models.InteractionStats{}, nil
	}
	stats, err := a.store.InteractionStatsFor(ctx, targetType, ids, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s interactions: %w", targetType, err)
	}
	return stats, nil
}

// preview truncates content for feed display.
func preview(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
