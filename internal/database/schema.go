// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates sequences, tables, and indexes. All statements are
// idempotent so startup against an existing database is a no-op.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range schemaStatements() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema statement: %s: %w", query, err)
		}
	}

	return nil
}

// schemaStatements returns the DDL in dependency order. DuckDB has no
// AUTO_INCREMENT; sequences feed the id columns instead.
func schemaStatements() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_users START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_ratings START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_reviews START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_lists START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_comments START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_likes START 1`,
		`CREATE SEQUENCE IF NOT EXISTS seq_notifications START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_users'),
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS ratings (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_ratings'),
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			rating DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_reviews'),
			user_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			contains_spoilers BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS lists (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_lists'),
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT true,
			is_collaborative BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS list_movies (
			list_id BIGINT NOT NULL,
			movie_id BIGINT NOT NULL,
			position INTEGER NOT NULL,
			added_at TIMESTAMP NOT NULL,
			UNIQUE (list_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_comments'),
			user_id BIGINT NOT NULL,
			target_type TEXT NOT NULL,
			target_id BIGINT NOT NULL,
			content TEXT NOT NULL,
			parent_id BIGINT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS likes (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_likes'),
			user_id BIGINT NOT NULL,
			target_type TEXT NOT NULL,
			target_id BIGINT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, target_type, target_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id BIGINT PRIMARY KEY DEFAULT nextval('seq_notifications'),
			user_id BIGINT NOT NULL,
			actor_id BIGINT NOT NULL,
			type TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id BIGINT NOT NULL,
			movie_id BIGINT,
			movie_title TEXT NOT NULL DEFAULT '',
			content_preview TEXT NOT NULL DEFAULT '',
			is_read BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL
		)`,

		// Feed queries scan by recency; interaction lookups by target.
		`CREATE INDEX IF NOT EXISTS idx_ratings_created ON ratings (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings (user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_created ON reviews (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie ON reviews (movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_created ON lists (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_target ON comments (target_type, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_target ON likes (target_type, target_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC)`,
	}
}
