// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinegraph/config.yaml",
	"/etc/cinegraph/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all configuration environment variables.
const envPrefix = "CINEGRAPH_"

// defaultConfig returns a Config with all defaults applied. File and
// environment layers override these.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/cinegraph.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		TMDB: TMDBConfig{
			APIKey:          "",
			BaseURL:         "https://api.themoviedb.org/3",
			Timeout:         10 * time.Second,
			RatePerSecond:   20,
			Burst:           40,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
			CacheTTL:        5 * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			TokenExpiry:       24 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Recommend: RecommendConfig{
			MaxSimilarUsers: 10,
			DefaultLimit:    10,
			MaxLimit:        20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Struct defaults
//  2. Optional YAML config file
//  3. CINEGRAPH_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// CINEGRAPH_TMDB_API_KEY -> tmdb.api_key, etc. Env names use single
	// underscores as both segment and word separators, so the transform
	// maps known two-word leaf names back after splitting.
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// multiWordLeaves maps flattened env suffixes to their koanf leaf names.
// Without this, CINEGRAPH_SECURITY_JWT_SECRET would parse as
// security.jwt.secret instead of security.jwt_secret.
var multiWordLeaves = map[string]string{
	"jwt.secret":          "jwt_secret",
	"token.expiry":        "token_expiry",
	"api.key":             "api_key",
	"base.url":            "base_url",
	"rate.per.second":     "rate_per_second",
	"breaker.failures":    "breaker_failures",
	"breaker.cooldown":    "breaker_cooldown",
	"cache.ttl":           "cache_ttl",
	"max.memory":          "max_memory",
	"read.timeout":        "read_timeout",
	"write.timeout":       "write_timeout",
	"shutdown.timeout":    "shutdown_timeout",
	"rate.limit.reqs":     "rate_limit_reqs",
	"rate.limit.window":   "rate_limit_window",
	"rate.limit.disabled": "rate_limit_disabled",
	"cors.origins":        "cors_origins",
	"default.page.size":   "default_page_size",
	"max.page.size":       "max_page_size",
	"max.similar.users":   "max_similar_users",
	"default.limit":       "default_limit",
	"max.limit":           "max_limit",
}

// envTransformFunc maps CINEGRAPH_SECTION_SOME_KEY to section.some_key.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "_", ".")

	for suffix, leaf := range multiWordLeaves {
		if strings.HasSuffix(key, "."+suffix) {
			return strings.TrimSuffix(key, suffix) + leaf
		}
	}
	return key
}

// sliceConfigPaths lists paths parsed as comma-separated slices when set
// from the environment.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated strings into slices for the
// known slice fields. Env vars arrive as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
