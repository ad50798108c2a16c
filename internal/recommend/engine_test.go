// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

type fakeStore struct {
	vectors map[int64]map[int64]float64
}

func (f *fakeStore) RatingVector(_ context.Context, userID int64) (map[int64]float64, error) {
	return f.vectors[userID], nil
}

func (f *fakeStore) RatingVectors(_ context.Context, excludeUser int64, minRatings int) (map[int64]map[int64]float64, error) {
	out := make(map[int64]map[int64]float64)
	for id, v := range f.vectors {
		if id != excludeUser && len(v) >= minRatings {
			out[id] = v
		}
	}
	return out, nil
}

func (f *fakeStore) RatingsAboveByUsers(_ context.Context, userIDs []int64, minRating float64) ([]models.Rating, error) {
	var ratings []models.Rating
	for _, id := range userIDs {
		for movieID, value := range f.vectors[id] {
			if value >= minRating {
				ratings = append(ratings, models.Rating{UserID: id, MovieID: movieID, Rating: value})
			}
		}
	}
	return ratings, nil
}

func (f *fakeStore) RatedMovieIDs(_ context.Context, userID int64) (map[int64]bool, error) {
	seen := make(map[int64]bool)
	for movieID := range f.vectors[userID] {
		seen[movieID] = true
	}
	return seen, nil
}

func (f *fakeStore) CountRatingsByUser(_ context.Context, userID int64) (int, error) {
	return len(f.vectors[userID]), nil
}

type fakeMetadata struct {
	movies       map[int64]*tmdb.Movie
	trending     []tmdb.Movie
	topRated     []tmdb.Movie
	similar      []tmdb.Movie
	trendingErr  error
	trendingHits int
}

func (f *fakeMetadata) GetMovie(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	if m, ok := f.movies[movieID]; ok {
		return m, nil
	}
	return nil, tmdb.ErrNotFound
}

func (f *fakeMetadata) Trending(_ context.Context, _ string) (*tmdb.Page, error) {
	f.trendingHits++
	if f.trendingErr != nil {
		return nil, f.trendingErr
	}
	return &tmdb.Page{Page: 1, Results: f.trending}, nil
}

func (f *fakeMetadata) TopRated(_ context.Context, _ int) (*tmdb.Page, error) {
	return &tmdb.Page{Page: 1, Results: f.topRated}, nil
}

func (f *fakeMetadata) Similar(_ context.Context, _ int64, _ int) (*tmdb.Page, error) {
	return &tmdb.Page{Page: 1, Results: f.similar}, nil
}

// neighbourhoodStore builds a target user 1 with five ratings and one
// perfectly aligned neighbour (user 2) who has also loved movie 100.
func neighbourhoodStore() *fakeStore {
	return &fakeStore{vectors: map[int64]map[int64]float64{
		1: {1: 5, 2: 4, 3: 5, 4: 4, 5: 5},
		2: {1: 5, 2: 4, 3: 5, 4: 4, 5: 5, 100: 4.5},
	}}
}

func metadataFor(ids ...int64) *fakeMetadata {
	movies := make(map[int64]*tmdb.Movie)
	for _, id := range ids {
		movies[id] = &tmdb.Movie{ID: id, Title: "Movie", VoteAverage: 8.0}
	}
	return &fakeMetadata{movies: movies}
}

func TestCollaborativeScoring(t *testing.T) {
	engine := NewEngine(neighbourhoodStore(), metadataFor(100), 10)

	recs, err := engine.Collaborative(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("recommendations = %d, want 1", len(recs))
	}

	rec := recs[0]
	if rec.MovieID != 100 {
		t.Errorf("MovieID = %d, want 100", rec.MovieID)
	}
	// One neighbour at similarity 1.0 rating 4.5: 4.5/5*100 = 90.0.
	if rec.Score != 90.0 {
		t.Errorf("Score = %v, want 90.0", rec.Score)
	}
	if rec.Source != models.SourceCollaborative {
		t.Errorf("Source = %q", rec.Source)
	}
	if rec.Reason != "based on 1 users with similar taste" {
		t.Errorf("Reason = %q", rec.Reason)
	}
	if rec.CommunityRating == nil || *rec.CommunityRating != 4.0 {
		t.Errorf("CommunityRating = %v, want 4.0", rec.CommunityRating)
	}
}

func TestCollaborativeExcludesSeenMovies(t *testing.T) {
	store := neighbourhoodStore()
	// Target has already rated movie 100.
	store.vectors[1][100] = 2.0

	engine := NewEngine(store, metadataFor(100), 10)
	recs, err := engine.Collaborative(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("seen movie must not be recommended, got %+v", recs)
	}
}

func TestCollaborativeDropsItemsWithoutMetadata(t *testing.T) {
	engine := NewEngine(neighbourhoodStore(), metadataFor( /* none */ ), 10)

	recs, err := engine.Collaborative(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("items without metadata should be dropped, got %+v", recs)
	}
}

func TestPersonalizedColdStartFallsBackToTrending(t *testing.T) {
	store := &fakeStore{vectors: map[int64]map[int64]float64{
		1: {1: 5, 2: 4}, // only two ratings
	}}
	metadata := &fakeMetadata{trending: []tmdb.Movie{{ID: 7, Title: "Hot"}}}
	engine := NewEngine(store, metadata, 10)

	recs, err := engine.Personalized(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if metadata.trendingHits != 1 {
		t.Error("cold start should hit trending")
	}
	if len(recs) != 1 || recs[0].Source != models.SourceTrending || recs[0].Score != 100 {
		t.Errorf("recs = %+v", recs)
	}
	if recs[0].Reason != "trending this week" {
		t.Errorf("Reason = %q", recs[0].Reason)
	}
}

func TestPersonalizedEmptyNeighbourhoodFallsBackToTrending(t *testing.T) {
	// Five ratings but nobody else in the system.
	store := &fakeStore{vectors: map[int64]map[int64]float64{
		1: {1: 5, 2: 4, 3: 5, 4: 4, 5: 5},
	}}
	metadata := &fakeMetadata{trending: []tmdb.Movie{{ID: 7, Title: "Hot"}}}
	engine := NewEngine(store, metadata, 10)

	recs, err := engine.Personalized(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Source != models.SourceTrending {
		t.Errorf("recs = %+v", recs)
	}
}

func TestTrendingFiltersSeen(t *testing.T) {
	store := &fakeStore{vectors: map[int64]map[int64]float64{
		1: {7: 4.0},
	}}
	metadata := &fakeMetadata{trending: []tmdb.Movie{{ID: 7}, {ID: 8}}}
	engine := NewEngine(store, metadata, 10)

	recs, err := engine.Trending(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].MovieID != 8 {
		t.Errorf("recs = %+v, want only movie 8", recs)
	}
}

func TestTrendingPropagatesProviderError(t *testing.T) {
	store := &fakeStore{vectors: map[int64]map[int64]float64{}}
	metadata := &fakeMetadata{trendingErr: tmdb.ErrUnavailable}
	engine := NewEngine(store, metadata, 10)

	if _, err := engine.Trending(context.Background(), 1, 10); !errors.Is(err, tmdb.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestTopRatedAndSimilarScores(t *testing.T) {
	store := &fakeStore{vectors: map[int64]map[int64]float64{}}
	metadata := &fakeMetadata{
		topRated: []tmdb.Movie{{ID: 1}},
		similar:  []tmdb.Movie{{ID: 2}},
	}
	engine := NewEngine(store, metadata, 10)
	ctx := context.Background()

	top, err := engine.TopRated(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Score != 90 || top[0].Source != models.SourceTopRated {
		t.Errorf("top rated = %+v", top)
	}

	sim, err := engine.SimilarToMovie(ctx, 1, 42, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sim) != 1 || sim[0].Score != 85 || sim[0].Source != models.SourceSimilar {
		t.Errorf("similar = %+v", sim)
	}
}

func TestCollaborativeLimit(t *testing.T) {
	store := &fakeStore{vectors: map[int64]map[int64]float64{
		1: {1: 5, 2: 4, 3: 5, 4: 4, 5: 5},
		2: {1: 5, 2: 4, 3: 5, 4: 4, 5: 5, 100: 5, 101: 4.5, 102: 4},
	}}
	engine := NewEngine(store, metadataFor(100, 101, 102), 10)

	recs, err := engine.Collaborative(context.Background(), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("limit 2: got %d", len(recs))
	}
	if recs[0].Score < recs[1].Score {
		t.Error("recommendations not sorted by score descending")
	}
	if recs[0].MovieID != 100 {
		t.Errorf("highest rated candidate should rank first, got %d", recs[0].MovieID)
	}
}
