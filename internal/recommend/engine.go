// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

// Generator constants.
const (
	// candidateMinRating: only movies a neighbour genuinely liked count
	// as candidates.
	candidateMinRating = 3.5

	// minRatingsForPersonalized gates the collaborative path; below it
	// the personalized endpoint serves trending.
	minRatingsForPersonalized = 5

	// Fallback scores, in descending trust order.
	trendingScore = 100
	topRatedScore = 90
	similarScore  = 85
)

// Store is the slice of the database the engine reads.
type Store interface {
	RatingVector(ctx context.Context, userID int64) (map[int64]float64, error)
	RatingVectors(ctx context.Context, excludeUser int64, minRatings int) (map[int64]map[int64]float64, error)
	RatingsAboveByUsers(ctx context.Context, userIDs []int64, minRating float64) ([]models.Rating, error)
	RatedMovieIDs(ctx context.Context, userID int64) (map[int64]bool, error)
	CountRatingsByUser(ctx context.Context, userID int64) (int, error)
}

// Metadata is the slice of the provider client the engine uses.
type Metadata interface {
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
	Trending(ctx context.Context, window string) (*tmdb.Page, error)
	TopRated(ctx context.Context, page int) (*tmdb.Page, error)
	Similar(ctx context.Context, movieID int64, page int) (*tmdb.Page, error)
}

// Engine produces scored movie recommendations.
type Engine struct {
	store    Store
	metadata Metadata

	maxSimilarUsers int
}

// NewEngine creates a recommendation engine. maxSimilarUsers bounds the
// neighbourhood size (default 10).
func NewEngine(store Store, metadata Metadata, maxSimilarUsers int) *Engine {
	if maxSimilarUsers <= 0 {
		maxSimilarUsers = 10
	}
	return &Engine{store: store, metadata: metadata, maxSimilarUsers: maxSimilarUsers}
}

// SimilarUsers returns the target's strongest taste neighbours. A target
// with fewer than five ratings has no neighbourhood.
func (e *Engine) SimilarUsers(ctx context.Context, userID int64) ([]models.SimilarUser, error) {
	target, err := e.store.RatingVector(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load target ratings: %w", err)
	}
	if len(target) < minRatingsPerUser {
		return nil, nil
	}

	candidates, err := e.store.RatingVectors(ctx, userID, minRatingsPerUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate ratings: %w", err)
	}

	return rankSimilar(target, candidates, e.maxSimilarUsers), nil
}

// candidateScore accumulates one movie's evidence from the neighbourhood.
type candidateScore struct {
	movieID     int64
	weightedSum float64
	count       int
	maxRating   float64
}

// Collaborative produces recommendations from the user's taste
// neighbourhood. An empty result means the caller should fall back.
func (e *Engine) Collaborative(ctx context.Context, userID int64, limit int) ([]models.Recommendation, error) {
	similar, err := e.SimilarUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	similarity := make(map[int64]float64, len(similar))
	userIDs := make([]int64, len(similar))
	for i, s := range similar {
		similarity[s.UserID] = s.Similarity
		userIDs[i] = s.UserID
	}

	ratings, err := e.store.RatingsAboveByUsers(ctx, userIDs, candidateMinRating)
	if err != nil {
		return nil, fmt.Errorf("failed to load neighbour ratings: %w", err)
	}

	seen, err := e.store.RatedMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seen movies: %w", err)
	}

	scores := make(map[int64]*candidateScore)
	for _, r := range ratings {
		if seen[r.MovieID] {
			continue
		}
		cs := scores[r.MovieID]
		if cs == nil {
			cs = &candidateScore{movieID: r.MovieID}
			scores[r.MovieID] = cs
		}
		cs.weightedSum += r.Rating * similarity[r.UserID]
		cs.count++
		cs.maxRating = math.Max(cs.maxRating, r.Rating)
	}

	ranked := make([]*candidateScore, 0, len(scores))
	for _, cs := range scores {
		ranked = append(ranked, cs)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].finalScore(), ranked[j].finalScore()
		if si != sj {
			return si > sj
		}
		return ranked[i].movieID < ranked[j].movieID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recommendations := make([]models.Recommendation, 0, len(ranked))
	for _, cs := range ranked {
		movie, err := e.metadata.GetMovie(ctx, cs.movieID)
		if err != nil {
			// A movie we cannot describe is not worth recommending.
			logging.Ctx(ctx).Warn().Int64("movie_id", cs.movieID).Err(err).Msg("dropping recommendation without metadata")
			continue
		}
		rec := recommendationFromMovie(movie, models.SourceCollaborative, cs.finalScore(),
			fmt.Sprintf("based on %d users with similar taste", cs.count))
		recommendations = append(recommendations, rec)
	}

	return recommendations, nil
}

// finalScore normalizes the neighbourhood average onto 0..100, rounded
// to one decimal.
func (cs *candidateScore) finalScore() float64 {
	avg := cs.weightedSum / float64(cs.count)
	return math.Round(avg/5.0*100*10) / 10
}

// Personalized serves the main recommendation endpoint: collaborative
// when the user has enough history and neighbours, trending otherwise.
func (e *Engine) Personalized(ctx context.Context, userID int64, limit int) ([]models.Recommendation, error) {
	count, err := e.store.CountRatingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	if count < minRatingsForPersonalized {
		return e.Trending(ctx, userID, limit)
	}

	recommendations, err := e.Collaborative(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(recommendations) == 0 {
		return e.Trending(ctx, userID, limit)
	}
	return recommendations, nil
}

// Trending recommends this week's trending movies the user has not seen.
func (e *Engine) Trending(ctx context.Context, userID int64, limit int) ([]models.Recommendation, error) {
	page, err := e.metadata.Trending(ctx, "week")
	if err != nil {
		return nil, err
	}
	return e.fromPage(ctx, userID, page, limit, models.SourceTrending, trendingScore, "trending this week")
}

// TopRated recommends the provider's top rated movies the user has not
// seen.
func (e *Engine) TopRated(ctx context.Context, userID int64, limit int) ([]models.Recommendation, error) {
	page, err := e.metadata.TopRated(ctx, 1)
	if err != nil {
		return nil, err
	}
	return e.fromPage(ctx, userID, page, limit, models.SourceTopRated, topRatedScore, "top rated by the community")
}

// SimilarToMovie recommends movies similar to a given one, minus the
// user's seen movies.
func (e *Engine) SimilarToMovie(ctx context.Context, userID, movieID int64, limit int) ([]models.Recommendation, error) {
	page, err := e.metadata.Similar(ctx, movieID, 1)
	if err != nil {
		return nil, err
	}
	return e.fromPage(ctx, userID, page, limit, models.SourceSimilar, similarScore, "similar in theme and style")
}

// fromPage converts a provider result page into recommendations,
// excluding the user's seen movies.
func (e *Engine) fromPage(ctx context.Context, userID int64, page *tmdb.Page, limit int, source models.RecommendationSource, score float64, reason string) ([]models.Recommendation, error) {
	seen, err := e.store.RatedMovieIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seen movies: %w", err)
	}

	recommendations := make([]models.Recommendation, 0, limit)
	for i := range page.Results {
		movie := &page.Results[i]
		if seen[movie.ID] {
			continue
		}
		recommendations = append(recommendations, recommendationFromMovie(movie, source, score, reason))
		if limit > 0 && len(recommendations) >= limit {
			break
		}
	}

	return recommendations, nil
}

func recommendationFromMovie(movie *tmdb.Movie, source models.RecommendationSource, score float64, reason string) models.Recommendation {
	rec := models.Recommendation{
		MovieID:      movie.ID,
		Title:        movie.Title,
		PosterPath:   movie.PosterPath,
		BackdropPath: movie.BackdropPath,
		ReleaseDate:  movie.ReleaseDate,
		Overview:     movie.Overview,
		Score:        score,
		Source:       source,
		Reason:       reason,
	}
	if movie.VoteAverage > 0 {
		local := movie.LocalRating()
		rec.CommunityRating = &local
	}
	return rec
}
