// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

type fakeStore struct {
	ratings []models.Rating
	reviews []models.Review
	lists   []models.MovieList
	stats   map[models.TargetType]map[int64]models.InteractionStats

	ratingWindow int
	reviewWindow int
	listWindow   int

	statsBatches map[models.TargetType][][]int64
}

func (f *fakeStore) ListRecentRatings(_ context.Context, userID, _ int64, limit int) ([]models.Rating, error) {
	f.ratingWindow = limit
	return filterByUser(f.ratings, userID, func(r models.Rating) int64 { return r.UserID }, limit), nil
}

func (f *fakeStore) ListRecentReviews(_ context.Context, userID int64, limit int) ([]models.Review, error) {
	f.reviewWindow = limit
	return filterByUser(f.reviews, userID, func(r models.Review) int64 { return r.UserID }, limit), nil
}

func (f *fakeStore) ListRecentLists(_ context.Context, userID int64, limit int) ([]models.MovieList, error) {
	f.listWindow = limit
	return filterByUser(f.lists, userID, func(l models.MovieList) int64 { return l.UserID }, limit), nil
}

func filterByUser[T any](items []T, userID int64, owner func(T) int64, limit int) []T {
	var out []T
	for _, item := range items {
		if userID == 0 || owner(item) == userID {
			out = append(out, item)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func (f *fakeStore) UserRefs(_ context.Context, ids []int64) (map[int64]models.UserRef, error) {
	refs := make(map[int64]models.UserRef)
	for _, id := range ids {
		refs[id] = models.UserRef{ID: id, Username: "user"}
	}
	return refs, nil
}

func (f *fakeStore) InteractionStatsFor(_ context.Context, targetType models.TargetType, targetIDs []int64, _ int64) (map[int64]models.InteractionStats, error) {
	if f.statsBatches == nil {
		f.statsBatches = make(map[models.TargetType][][]int64)
	}
	f.statsBatches[targetType] = append(f.statsBatches[targetType], targetIDs)

	out := make(map[int64]models.InteractionStats)
	for _, id := range targetIDs {
		if s, ok := f.stats[targetType][id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type fakeMetadata struct {
	missing map[int64]bool
}

func (f *fakeMetadata) GetMovie(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	if f.missing[movieID] {
		return nil, tmdb.ErrNotFound
	}
	return &tmdb.Movie{ID: movieID, Title: "Movie", VoteAverage: 7.0}, nil
}

func at(offset int) time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Minute)
}

func TestGlobalFeedMergesAndSorts(t *testing.T) {
	store := &fakeStore{
		ratings: []models.Rating{
			{ID: 1, UserID: 1, MovieID: 10, Rating: 4.5, CreatedAt: at(3)},
		},
		reviews: []models.Review{
			{ID: 2, UserID: 2, MovieID: 11, Title: "Great", Content: "body", CreatedAt: at(5)},
		},
		lists: []models.MovieList{
			{ID: 3, UserID: 1, Name: "Noir", Description: "dark ones", CreatedAt: at(1)},
		},
	}
	agg := NewAggregator(store, &fakeMetadata{})

	page, err := agg.Global(context.Background(), 0, 1, 20)
	if err != nil {
		t.Fatal(err)
	}

	if page.TotalItems != 3 || page.TotalPages != 1 {
		t.Errorf("totals = %d/%d, want 3/1", page.TotalItems, page.TotalPages)
	}
	want := []string{"review_2", "rating_1", "list_3"}
	if len(page.Activities) != 3 {
		t.Fatalf("activities = %d", len(page.Activities))
	}
	for i, a := range page.Activities {
		if a.ID != want[i] {
			t.Errorf("activities[%d].ID = %q, want %q", i, a.ID, want[i])
		}
	}

	rating := page.Activities[1]
	if rating.Rating == nil || *rating.Rating != 4.5 {
		t.Errorf("rating payload = %v", rating.Rating)
	}
	if rating.Movie == nil || rating.Movie.CommunityRating == nil || *rating.Movie.CommunityRating != 3.5 {
		t.Errorf("movie metadata = %+v", rating.Movie)
	}

	list := page.Activities[2]
	if list.Movie != nil {
		t.Error("list activity must not carry movie metadata")
	}
	if list.ListName != "Noir" || list.ListDescription != "dark ones" {
		t.Errorf("list payload = %q/%q", list.ListName, list.ListDescription)
	}
}

func TestGlobalFeedOverFetchWindows(t *testing.T) {
	store := &fakeStore{}
	agg := NewAggregator(store, &fakeMetadata{})

	if _, err := agg.Global(context.Background(), 0, 2, 10); err != nil {
		t.Fatal(err)
	}
	// window = page*pageSize = 20; ratings x3, reviews x3, lists x2.
	if store.ratingWindow != 60 || store.reviewWindow != 60 || store.listWindow != 40 {
		t.Errorf("windows = %d/%d/%d, want 60/60/40",
			store.ratingWindow, store.reviewWindow, store.listWindow)
	}
}

func TestUserFeedFiltersAndWindows(t *testing.T) {
	store := &fakeStore{
		ratings: []models.Rating{
			{ID: 1, UserID: 1, MovieID: 10, Rating: 4, CreatedAt: at(1)},
			{ID: 2, UserID: 2, MovieID: 11, Rating: 3, CreatedAt: at(2)},
		},
	}
	agg := NewAggregator(store, &fakeMetadata{})

	page, err := agg.User(context.Background(), 1, 1, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Activities) != 1 || page.Activities[0].ID != "rating_1" {
		t.Errorf("activities = %+v", page.Activities)
	}
	// window = 10; ratings x2, reviews x2, lists x1.
	if store.ratingWindow != 20 || store.reviewWindow != 20 || store.listWindow != 10 {
		t.Errorf("windows = %d/%d/%d, want 20/20/10",
			store.ratingWindow, store.reviewWindow, store.listWindow)
	}
}

func TestFeedDropsEntriesWithoutMetadata(t *testing.T) {
	store := &fakeStore{
		ratings: []models.Rating{
			{ID: 1, UserID: 1, MovieID: 10, Rating: 4, CreatedAt: at(2)},
			{ID: 2, UserID: 1, MovieID: 404, Rating: 5, CreatedAt: at(1)},
		},
	}
	agg := NewAggregator(store, &fakeMetadata{missing: map[int64]bool{404: true}})

	page, err := agg.Global(context.Background(), 0, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 1 || page.Activities[0].ID != "rating_1" {
		t.Errorf("page = %+v", page)
	}
}

func TestFeedPagination(t *testing.T) {
	store := &fakeStore{}
	for i := int64(1); i <= 5; i++ {
		store.ratings = append(store.ratings, models.Rating{
			ID: i, UserID: 1, MovieID: i, Rating: 4, CreatedAt: at(int(i)),
		})
	}
	agg := NewAggregator(store, &fakeMetadata{})
	ctx := context.Background()

	first, err := agg.Global(ctx, 0, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if first.Page != 1 || first.TotalPages != 3 || first.TotalItems != 5 {
		t.Errorf("first page meta = %+v", first)
	}
	if len(first.Activities) != 2 || first.Activities[0].ID != "rating_5" {
		t.Errorf("first page = %+v", first.Activities)
	}

	last, err := agg.Global(ctx, 0, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(last.Activities) != 1 || last.Activities[0].ID != "rating_1" {
		t.Errorf("last page = %+v", last.Activities)
	}

	beyond, err := agg.Global(ctx, 0, 9, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(beyond.Activities) != 0 {
		t.Errorf("page beyond window should be empty, got %+v", beyond.Activities)
	}
}

func TestFeedReviewPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 250)
	store := &fakeStore{
		reviews: []models.Review{
			{ID: 1, UserID: 1, MovieID: 10, Title: "T", Content: long, ContainsSpoilers: true, CreatedAt: at(1)},
		},
	}
	agg := NewAggregator(store, &fakeMetadata{})

	page, err := agg.Global(context.Background(), 0, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := page.Activities[0].ReviewPreview
	if len([]rune(got)) != 203 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview length = %d, want 200 + ellipsis", len([]rune(got)))
	}
	if page.Activities[0].ContainsSpoilers == nil || !*page.Activities[0].ContainsSpoilers {
		t.Error("spoiler flag lost")
	}
}

func TestFeedAttachesInteractionStats(t *testing.T) {
	store := &fakeStore{
		ratings: []models.Rating{
			{ID: 7, UserID: 1, MovieID: 10, Rating: 4, CreatedAt: at(1)},
		},
		stats: map[models.TargetType]map[int64]models.InteractionStats{
			models.TargetRating: {7: {LikesCount: 3, CommentsCount: 1, UserHasLiked: true}},
		},
	}
	agg := NewAggregator(store, &fakeMetadata{})

	page, err := agg.Global(context.Background(), 2, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	stats := page.Activities[0].Interactions
	if stats == nil || stats.LikesCount != 3 || stats.CommentsCount != 1 || !stats.UserHasLiked {
		t.Errorf("interactions = %+v", stats)
	}
}

func TestFeedStatsQueriedForPageOnly(t *testing.T) {
	var ratings []models.Rating
	for i := 1; i <= 5; i++ {
		ratings = append(ratings, models.Rating{
			ID: int64(i), UserID: 1, MovieID: int64(100 + i), Rating: 4, CreatedAt: at(i),
		})
	}
	store := &fakeStore{ratings: ratings}
	agg := NewAggregator(store, &fakeMetadata{})

	page, err := agg.Global(context.Background(), 0, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Activities) != 2 {
		t.Fatalf("activities = %d", len(page.Activities))
	}

	batches := store.statsBatches[models.TargetRating]
	if len(batches) != 1 {
		t.Fatalf("rating stats batches = %d, want 1", len(batches))
	}
	if len(batches[0]) != 2 || batches[0][0] != 5 || batches[0][1] != 4 {
		t.Errorf("batched ids = %v, want the sliced page's [5 4]", batches[0])
	}
	if len(store.statsBatches[models.TargetReview]) != 0 || len(store.statsBatches[models.TargetList]) != 0 {
		t.Error("stats queried for target types absent from the page")
	}
}
