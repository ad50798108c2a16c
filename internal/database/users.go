// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

// CreateUser inserts a new account. Returns ErrDuplicate when the
// username or email is already taken.
func (db *DB) CreateUser(ctx context.Context, username, email, fullName, passwordHash string) (*models.User, error) {
	u := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    now(),
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO users (username, email, full_name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		u.Username, u.Email, u.FullName, u.PasswordHash, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %s: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetUserByID fetches one user by id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx, "id = ?", id)
}

// GetUserByUsername fetches one user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return db.getUser(ctx, "username = ?", username)
}

func (db *DB) getUser(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, full_name, password_hash, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UserRefs resolves a set of user ids to their compact references.
// Missing ids are silently absent from the result map.
func (db *DB) UserRefs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error) {
	refs := make(map[int64]models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	placeholders, args := inClause(ids)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, full_name FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user refs: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var ref models.UserRef
		if err := rows.Scan(&ref.ID, &ref.Username, &ref.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan user ref: %w", err)
		}
		refs[ref.ID] = ref
	}

	return refs, rows.Err()
}

// GetUserStats aggregates a user's catalogued activity. FavoriteGenre and
// MostWatchedYear stay null; the local store carries no genre or release
// year data to derive them from.
func (db *DB) GetUserStats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats := &models.UserStats{}

	var avg sql.NullFloat64
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM ratings WHERE user_id = ?),
			(SELECT COUNT(*) FROM reviews WHERE user_id = ?),
			(SELECT COUNT(*) FROM lists WHERE user_id = ?),
			(SELECT COUNT(DISTINCT movie_id) FROM ratings WHERE user_id = ?),
			(SELECT AVG(rating) FROM ratings WHERE user_id = ?)`,
		userID, userID, userID, userID, userID,
	).Scan(&stats.TotalRatings, &stats.TotalReviews, &stats.TotalLists, &stats.MoviesRated, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	if avg.Valid {
		rounded := math.Round(avg.Float64*10) / 10
		stats.AverageRating = &rounded
	}

	return stats, nil
}

// isUniqueViolation reports whether err is a uniqueness constraint error.
// The duckdb driver surfaces these as plain errors, so match on message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint error")
}

// inClause builds a "?, ?, ?" placeholder list and its args for an IN query.
func inClause(ids []int64) (string, []interface{}) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders, args
}
