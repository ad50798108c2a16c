// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package tmdb provides the client for the external movie metadata
// provider. All outbound calls go through a rate limiter and a circuit
// breaker; movie detail lookups are additionally cached with a TTL.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/fkenzio/movie-social-backend/internal/config"
	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/metrics"
)

// Sentinel errors. Callers degrade on ErrUnavailable and surface
// ErrNotFound as a missing movie.
var (
	ErrNotFound    = errors.New("movie not found")
	ErrUnavailable = errors.New("metadata provider unavailable")
)

// Client talks to the metadata provider API.
type Client struct {
	baseURL string
	apiKey  string

	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]

	cache *ttlCache[*Movie]
}

// New creates a metadata provider client from configuration.
func New(cfg *config.TMDBConfig) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cache:      newTTLCache[*Movie](cfg.CacheTTL),
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "tmdb",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.TMDBBreakerState.Set(stateToFloat(to))
		},
	})

	return c
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// GetMovie fetches full movie details, including credits, videos, and
// similar titles. Results are cached for the configured TTL.
func (c *Client) GetMovie(ctx context.Context, movieID int64) (*Movie, error) {
	key := strconv.FormatInt(movieID, 10)
	if movie, ok := c.cache.get(key); ok {
		metrics.TMDBCacheHits.Inc()
		return movie, nil
	}
	metrics.TMDBCacheMisses.Inc()

	movie := &Movie{}
	err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID),
		url.Values{"append_to_response": {"credits,videos,similar"}}, movie)
	if err != nil {
		return nil, err
	}

	c.cache.set(key, movie)
	return movie, nil
}

// Trending fetches trending movies for a time window ("day" or "week",
// default "week").
func (c *Client) Trending(ctx context.Context, window string) (*Page, error) {
	if window != "day" && window != "week" {
		window = "week"
	}
	page := &Page{}
	if err := c.getJSON(ctx, "/trending/movie/"+window, nil, page); err != nil {
		return nil, err
	}
	return page, nil
}

// TopRated fetches the provider's top rated movies.
func (c *Client) TopRated(ctx context.Context, pageNum int) (*Page, error) {
	return c.getPage(ctx, "/movie/top_rated", pageNum)
}

// Popular fetches the provider's popular movies.
func (c *Client) Popular(ctx context.Context, pageNum int) (*Page, error) {
	return c.getPage(ctx, "/movie/popular", pageNum)
}

// NowPlaying fetches movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, pageNum int) (*Page, error) {
	return c.getPage(ctx, "/movie/now_playing", pageNum)
}

// Similar fetches movies similar to the given one.
func (c *Client) Similar(ctx context.Context, movieID int64, pageNum int) (*Page, error) {
	return c.getPage(ctx, fmt.Sprintf("/movie/%d/similar", movieID), pageNum)
}

// Search searches movies by title.
func (c *Client) Search(ctx context.Context, query string, pageNum int) (*Page, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	page := &Page{}
	err := c.getJSON(ctx, "/search/movie", url.Values{
		"query": {query},
		"page":  {strconv.Itoa(pageNum)},
	}, page)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) getPage(ctx context.Context, path string, pageNum int) (*Page, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	page := &Page{}
	err := c.getJSON(ctx, path, url.Values{"page": {strconv.Itoa(pageNum)}}, page)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// getJSON performs a rate-limited, breaker-guarded GET and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doGet(ctx, path, params)
	})
	if err != nil {
		metrics.TMDBRequestsTotal.WithLabelValues(path, "error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return err
	}
	metrics.TMDBRequestsTotal.WithLabelValues(path, "success").Inc()

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// A 404 is a definitive answer, not a provider failure. Return it
		// without counting against the breaker.
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

// ImageURL builds a full image URL for a poster or backdrop path.
// Size is a provider size tag such as "w500" or "original".
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = "w500"
	}
	return "https://image.tmdb.org/t/p/" + size + path
}
