// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/config"
)

func testConfig(baseURL string) *config.TMDBConfig {
	return &config.TMDBConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		RatePerSecond:   1000,
		Burst:           1000,
		BreakerFailures: 3,
		BreakerCooldown: time.Minute,
		CacheTTL:        time.Minute,
	}
}

func TestGetMovieCachesDetails(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/movie/550" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("append_to_response"); got != "credits,videos,similar" {
			t.Errorf("append_to_response = %q", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q", got)
		}
		_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","vote_average":8.4}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	ctx := context.Background()

	movie, err := c.GetMovie(ctx, 550)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if movie.Title != "Fight Club" {
		t.Errorf("Title = %q", movie.Title)
	}
	if got := movie.LocalRating(); got != 4.2 {
		t.Errorf("LocalRating = %v, want 4.2", got)
	}

	if _, err := c.GetMovie(ctx, 550); err != nil {
		t.Fatalf("cached GetMovie: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1 (second hit cached)", calls.Load())
	}
}

func TestGetMovieNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	if _, err := c.GetMovie(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	if _, err := c.Trending(context.Background(), "week"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Popular(ctx, 1); err == nil {
			t.Fatal("expected failure")
		}
	}

	// Breaker is now open; the request must fail without reaching upstream.
	srv.Close()
	if _, err := c.Popular(ctx, 1); !errors.Is(err, ErrUnavailable) {
		t.Errorf("open breaker: err = %v, want ErrUnavailable", err)
	}
}

func TestTrendingWindowDefault(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"A"}],"total_pages":1,"total_results":1}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	page, err := c.Trending(context.Background(), "month")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/trending/movie/week" {
		t.Errorf("invalid window should fall back to week, got path %q", gotPath)
	}
	if len(page.Results) != 1 || page.Results[0].Title != "A" {
		t.Errorf("page = %+v", page)
	}
}

func TestSearchQueryEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "blade runner" {
			t.Errorf("query = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q", got)
		}
		_, _ = w.Write([]byte(`{"page":2,"results":[],"total_pages":2,"total_results":25}`))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL))
	if _, err := c.Search(context.Background(), "blade runner", 2); err != nil {
		t.Fatal(err)
	}
}

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		size string
		want string
	}{
		{"poster", "/abc.jpg", "w500", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"default size", "/abc.jpg", "", "https://image.tmdb.org/t/p/w500/abc.jpg"},
		{"empty path", "", "w500", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageURL(tt.path, tt.size); got != tt.want {
				t.Errorf("ImageURL(%q, %q) = %q, want %q", tt.path, tt.size, got, tt.want)
			}
		})
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := newTTLCache[int](10 * time.Millisecond)
	c.set("k", 42)

	if v, ok := c.get("k"); !ok || v != 42 {
		t.Fatalf("get = %v, %v", v, ok)
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Error("entry should have expired")
	}
}
