// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package config loads and validates the Cinegraph server configuration.
//
// Configuration is layered via Koanf v2 (highest priority wins):
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables with the CINEGRAPH_ prefix
//     (CINEGRAPH_SERVER_PORT -> server.port)
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the root configuration for the server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Security  SecurityConfig  `koanf:"security"`
	API       APIConfig       `koanf:"api"`
	Recommend RecommendConfig `koanf:"recommend"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path. Empty means in-memory.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 means runtime default.
	Threads int `koanf:"threads"`
}

// TMDBConfig holds settings for the movie metadata provider client.
type TMDBConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RatePerSecond and Burst bound outbound request rate.
	RatePerSecond float64 `koanf:"rate_per_second"`
	Burst         int     `koanf:"burst"`

	// BreakerFailures is the consecutive failure count that opens the
	// circuit breaker; BreakerCooldown is how long it stays open.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown"`

	// CacheTTL bounds staleness of cached movie details.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds auth and HTTP hardening settings.
type SecurityConfig struct {
	// JWTSecret signs access tokens. Required, 32+ characters.
	JWTSecret   string        `koanf:"jwt_secret"`
	TokenExpiry time.Duration `koanf:"token_expiry"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination defaults.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// RecommendConfig holds recommendation engine limits. The similarity and
// scoring constants are fixed in internal/recommend; only operational
// knobs live here.
type RecommendConfig struct {
	MaxSimilarUsers int `koanf:"max_similar_users"`
	DefaultLimit    int `koanf:"default_limit"`
	MaxLimit        int `koanf:"max_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if len(c.Security.JWTSecret) < 32 {
		errs = append(errs, errors.New("security.jwt_secret must be at least 32 characters"))
	}
	if c.Security.TokenExpiry <= 0 {
		errs = append(errs, errors.New("security.token_expiry must be positive"))
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		errs = append(errs, fmt.Errorf("api.default_page_size %d must be in [1, max_page_size]", c.API.DefaultPageSize))
	}
	if c.TMDB.RatePerSecond <= 0 {
		errs = append(errs, errors.New("tmdb.rate_per_second must be positive"))
	}
	if c.Recommend.MaxSimilarUsers < 1 {
		errs = append(errs, errors.New("recommend.max_similar_users must be positive"))
	}

	return errors.Join(errs...)
}
