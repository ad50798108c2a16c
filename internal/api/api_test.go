// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/config"
	"github.com/fkenzio/movie-social-backend/internal/database"
	"github.com/fkenzio/movie-social-backend/internal/feed"
	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/notify"
	"github.com/fkenzio/movie-social-backend/internal/recommend"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

// fakeMetadata serves canned movie metadata for every provider call.
type fakeMetadata struct{}

func (fakeMetadata) GetMovie(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	return &tmdb.Movie{ID: movieID, Title: fmt.Sprintf("Movie %d", movieID), VoteAverage: 8.0}, nil
}

func (f fakeMetadata) page() *tmdb.Page {
	return &tmdb.Page{Page: 1, Results: []tmdb.Movie{{ID: 900, Title: "Fallback"}}, TotalPages: 1, TotalResults: 1}
}

func (f fakeMetadata) Trending(_ context.Context, _ string) (*tmdb.Page, error)     { return f.page(), nil }
func (f fakeMetadata) TopRated(_ context.Context, _ int) (*tmdb.Page, error)        { return f.page(), nil }
func (f fakeMetadata) Popular(_ context.Context, _ int) (*tmdb.Page, error)         { return f.page(), nil }
func (f fakeMetadata) NowPlaying(_ context.Context, _ int) (*tmdb.Page, error)      { return f.page(), nil }
func (f fakeMetadata) Search(_ context.Context, _ string, _ int) (*tmdb.Page, error) { return f.page(), nil }
func (f fakeMetadata) Similar(_ context.Context, _ int64, _ int) (*tmdb.Page, error) {
	return f.page(), nil
}

type testServer struct {
	srv      *httptest.Server
	db       *database.DB
	registry *notify.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:         strings.Repeat("s", 32),
			TokenExpiry:       time.Hour,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		API:       config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Recommend: config.RecommendConfig{MaxSimilarUsers: 10, DefaultLimit: 10, MaxLimit: 20},
	}

	db, err := database.New(&config.DatabaseConfig{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	jwt, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatal(err)
	}

	metadata := fakeMetadata{}
	registry := notify.NewRegistry()
	t.Cleanup(registry.Close)

	handler := NewHandler(
		cfg, db,
		auth.NewService(db, jwt),
		metadata,
		recommend.NewEngine(db, metadata, cfg.Recommend.MaxSimilarUsers),
		feed.NewAggregator(db, metadata),
		notify.NewService(db, metadata, registry),
	)

	srv := httptest.NewServer(NewRouter(handler, cfg, jwt).Setup())
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, db: db, registry: registry}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	env := &envelope{}
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, env
}

// register creates an account and returns its id and token.
func (ts *testServer) register(t *testing.T, username string) (int64, string) {
	t.Helper()

	resp, env := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "passwordpass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d: %+v", resp.StatusCode, env.Error)
	}

	var session struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatal(err)
	}
	return session.User.ID, session.Token
}

func TestRegisterLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	userID, token := ts.register(t, "kenzio")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "kenzio",
		"password": "passwordpass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}

	resp, env = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me models.User
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatal(err)
	}
	if me.ID != userID || me.Username != "kenzio" {
		t.Errorf("me = %+v", me)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "kenzio")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "kenzio",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized || env.Error.Code != ErrCodeUnauthorized {
		t.Errorf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}
}

func TestProtectedEndpointRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.do(t, http.MethodPost, "/api/v1/ratings", "", map[string]interface{}{
		"movie_id": 550, "rating": 4.5,
	})
	if resp.StatusCode != http.StatusUnauthorized || env.Error.Code != ErrCodeUnauthorized {
		t.Errorf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}
}

func TestRateMovieValidation(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "kenzio")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]interface{}{
		"movie_id": 550, "rating": 4.3,
	})
	if resp.StatusCode != http.StatusBadRequest || env.Error.Code != ErrCodeValidationFailed {
		t.Errorf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}
}

func TestRatingLifecycle(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "kenzio")

	resp, _ := ts.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]interface{}{
		"movie_id": 550, "rating": 4.5,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rate status = %d", resp.StatusCode)
	}

	resp, env := ts.do(t, http.MethodGet, "/api/v1/ratings/movie/550", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get rating status = %d", resp.StatusCode)
	}
	var rating models.Rating
	if err := json.Unmarshal(env.Data, &rating); err != nil {
		t.Fatal(err)
	}
	if rating.Rating != 4.5 {
		t.Errorf("rating = %v", rating.Rating)
	}

	resp, env = ts.do(t, http.MethodGet, "/api/v1/movies/550/ratings/stats", token, nil)
	var stats models.MovieRatingStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalRatings != 1 || stats.Distribution["4.5"] != 1 {
		t.Errorf("stats = %+v", stats)
	}

	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/ratings/movie/550", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp, _ = ts.do(t, http.MethodGet, "/api/v1/ratings/movie/550", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("after delete status = %d", resp.StatusCode)
	}
}

func TestDuplicateReviewConflict(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "kenzio")

	review := map[string]interface{}{
		"movie_id": 550,
		"title":    "A modern classic",
		"content":  "Twenty five years on it still lands.",
	}
	resp, _ := ts.do(t, http.MethodPost, "/api/v1/reviews", token, review)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp, env := ts.do(t, http.MethodPost, "/api/v1/reviews", token, review)
	if resp.StatusCode != http.StatusConflict || env.Error.Code != ErrCodeConflict {
		t.Errorf("duplicate status = %d, error = %+v", resp.StatusCode, env.Error)
	}
}

func TestPrivateListForbidden(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.register(t, "owner")
	_, otherToken := ts.register(t, "other")

	isPublic := false
	resp, env := ts.do(t, http.MethodPost, "/api/v1/lists", ownerToken, map[string]interface{}{
		"name": "Secret stash", "is_public": isPublic,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list status = %d", resp.StatusCode)
	}
	var list models.MovieList
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}

	resp, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/lists/%d", list.ID), otherToken, nil)
	if resp.StatusCode != http.StatusForbidden || env.Error.Code != ErrCodeForbidden {
		t.Errorf("status = %d, error = %+v", resp.StatusCode, env.Error)
	}

	resp, _ = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/lists/%d", list.ID), ownerToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("owner status = %d", resp.StatusCode)
	}
}

func TestLikeNotifiesOwner(t *testing.T) {
	ts := newTestServer(t)
	_, authorToken := ts.register(t, "author")
	_, likerToken := ts.register(t, "liker")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/reviews", authorToken, map[string]interface{}{
		"movie_id": 550, "title": "Great", "content": "Simply the best ever.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("review status = %d", resp.StatusCode)
	}
	var review models.Review
	if err := json.Unmarshal(env.Data, &review); err != nil {
		t.Fatal(err)
	}

	resp, env = ts.do(t, http.MethodPost, "/api/v1/likes", likerToken, map[string]interface{}{
		"target_type": "review", "target_id": review.ID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("like status = %d", resp.StatusCode)
	}
	var liked map[string]bool
	if err := json.Unmarshal(env.Data, &liked); err != nil {
		t.Fatal(err)
	}
	if !liked["liked"] {
		t.Error("first toggle should like")
	}

	resp, env = ts.do(t, http.MethodGet, "/api/v1/notifications", authorToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("notifications status = %d", resp.StatusCode)
	}
	var events []models.NotificationEvent
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Type != models.NotificationLike {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Actor.Username != "liker" {
		t.Errorf("actor = %+v", events[0].Actor)
	}
	if events[0].MovieTitle != "Movie 550" {
		t.Errorf("movie title = %q", events[0].MovieTitle)
	}
}

func TestLikeToggleReturnsToUnliked(t *testing.T) {
	ts := newTestServer(t)
	_, authorToken := ts.register(t, "author")
	_, likerToken := ts.register(t, "liker")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/reviews", authorToken, map[string]interface{}{
		"movie_id": 550, "title": "Great", "content": "Simply the best ever.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("review failed")
	}
	var review models.Review
	if err := json.Unmarshal(env.Data, &review); err != nil {
		t.Fatal(err)
	}

	like := map[string]interface{}{"target_type": "review", "target_id": review.ID}
	wantLiked := []bool{true, false}
	for i, want := range wantLiked {
		_, env := ts.do(t, http.MethodPost, "/api/v1/likes", likerToken, like)
		var result map[string]bool
		if err := json.Unmarshal(env.Data, &result); err != nil {
			t.Fatal(err)
		}
		if result["liked"] != want {
			t.Errorf("toggle %d: liked = %v, want %v", i+1, result["liked"], want)
		}
	}

	query := fmt.Sprintf("/api/v1/interactions/stats?target_type=review&target_id=%d", review.ID)
	_, env = ts.do(t, http.MethodGet, query, likerToken, nil)
	var stats models.InteractionStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.LikesCount != 0 || stats.UserHasLiked {
		t.Errorf("stats after even toggles = %+v", stats)
	}
}

func TestFeedShowsActivity(t *testing.T) {
	ts := newTestServer(t)
	userID, token := ts.register(t, "kenzio")

	if resp, _ := ts.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]interface{}{
		"movie_id": 550, "rating": 5.0,
	}); resp.StatusCode != http.StatusOK {
		t.Fatal("rating failed")
	}

	resp, env := ts.do(t, http.MethodGet, "/api/v1/feed", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("feed status = %d", resp.StatusCode)
	}
	var page models.FeedPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.TotalItems != 1 || page.Activities[0].Type != models.ActivityRating {
		t.Fatalf("feed = %+v", page)
	}
	if page.Activities[0].Actor.ID != userID {
		t.Errorf("actor = %+v", page.Activities[0].Actor)
	}

	resp, env = ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/feed", userID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("user feed status = %d", resp.StatusCode)
	}
}

func TestUsersTopRatedRankingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	for i := 1; i <= 5; i++ {
		_, token := ts.register(t, fmt.Sprintf("rater%d", i))
		if resp, _ := ts.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]interface{}{
			"movie_id": 550, "rating": 4.5,
		}); resp.StatusCode != http.StatusOK {
			t.Fatal("rating failed")
		}
		// Only four ratings: stays off the ranking.
		if i < 5 {
			if resp, _ := ts.do(t, http.MethodPost, "/api/v1/ratings", token, map[string]interface{}{
				"movie_id": 700, "rating": 5.0,
			}); resp.StatusCode != http.StatusOK {
				t.Fatal("rating failed")
			}
		}
	}

	resp, env := ts.do(t, http.MethodGet, "/api/v1/rankings/users/top-rated", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var ranking models.RankingPage
	if err := json.Unmarshal(env.Data, &ranking); err != nil {
		t.Fatal(err)
	}
	if ranking.Source != models.RankingSourceUsers || ranking.MinRatings != 5 {
		t.Errorf("ranking meta = %+v", ranking)
	}
	if ranking.TotalResults != 1 || len(ranking.Rankings) != 1 {
		t.Fatalf("rankings = %+v", ranking.Rankings)
	}
	top := ranking.Rankings[0]
	if top.Rank != 1 || top.MovieID != 550 || top.UsersAverage != 4.5 || top.TotalRatings != 5 {
		t.Errorf("top entry = %+v", top)
	}

	_, env = ts.do(t, http.MethodGet, "/api/v1/rankings/users/top-rated?min_ratings=4", "", nil)
	if err := json.Unmarshal(env.Data, &ranking); err != nil {
		t.Fatal(err)
	}
	if ranking.TotalResults != 2 || ranking.Rankings[0].MovieID != 700 {
		t.Errorf("loose ranking = %+v", ranking.Rankings)
	}
}

func TestTMDBTopRatedRankingEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.do(t, http.MethodGet, "/api/v1/rankings/tmdb/top-rated", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var ranking models.RankingPage
	if err := json.Unmarshal(env.Data, &ranking); err != nil {
		t.Fatal(err)
	}
	if ranking.Source != models.RankingSourceTMDB || len(ranking.Rankings) != 1 {
		t.Fatalf("ranking = %+v", ranking)
	}
	if ranking.Rankings[0].Rank != 1 || ranking.Rankings[0].Title != "Fallback" {
		t.Errorf("entry = %+v", ranking.Rankings[0])
	}
}

func TestRecommendationsColdStartServesTrending(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.register(t, "newbie")

	resp, env := ts.do(t, http.MethodGet, "/api/v1/recommendations", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var recs []models.Recommendation
	if err := json.Unmarshal(env.Data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Source != models.SourceTrending {
		t.Errorf("recs = %+v", recs)
	}
}

func TestSSEStreamDeliversLikeEvent(t *testing.T) {
	ts := newTestServer(t)
	authorID, authorToken := ts.register(t, "author")
	_, likerToken := ts.register(t, "liker")

	resp, env := ts.do(t, http.MethodPost, "/api/v1/reviews", authorToken, map[string]interface{}{
		"movie_id": 550, "title": "Great", "content": "Simply the best ever.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatal("review failed")
	}
	var review models.Review
	if err := json.Unmarshal(env.Data, &review); err != nil {
		t.Fatal(err)
	}

	// EventSource-style connection authenticating via query token.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		ts.srv.URL+"/api/v1/notifications/stream?token="+authorToken, nil)
	if err != nil {
		t.Fatal(err)
	}
	streamResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer streamResp.Body.Close()
	if got := streamResp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("Content-Type = %q", got)
	}

	// Wait for the subscription to land before triggering the like.
	deadline := time.Now().Add(2 * time.Second)
	for ts.registry.SubscriberCount(authorID) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if resp, _ := ts.do(t, http.MethodPost, "/api/v1/likes", likerToken, map[string]interface{}{
		"target_type": "review", "target_id": review.ID,
	}); resp.StatusCode != http.StatusOK {
		t.Fatal("like failed")
	}

	scanner := bufio.NewScanner(streamResp.Body)
	received := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event models.NotificationEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			t.Fatal(err)
		}
		if event.Type != models.NotificationLike || event.Actor.Username != "liker" {
			t.Errorf("event = %+v", event)
		}
		received = true
		break
	}
	if !received {
		t.Fatal("stream closed without delivering the event")
	}

	// Disconnecting must unregister the subscriber.
	cancel()
	deadline = time.Now().Add(2 * time.Second)
	for ts.registry.SubscriberCount(authorID) != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := ts.registry.SubscriberCount(authorID); got != 0 {
		t.Errorf("subscriber count after disconnect = %d", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Errorf("status = %d, success = %v", resp.StatusCode, env.Success)
	}
}
