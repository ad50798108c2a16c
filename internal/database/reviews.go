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

	"github.com/fkenzio/movie-social-backend/internal/models"
)

const reviewColumns = `id, user_id, movie_id, title, content, contains_spoilers, created_at, updated_at`

// CreateReview inserts a review. A second review for the same
// (user, movie) returns ErrDuplicate.
func (db *DB) CreateReview(ctx context.Context, userID, movieID int64, title, content string, spoilers bool) (*models.Review, error) {
	ts := now()
	r := &models.Review{
		UserID:           userID,
		MovieID:          movieID,
		Title:            title,
		Content:          content,
		ContainsSpoilers: spoilers,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO reviews (user_id, movie_id, title, content, contains_spoilers, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID, movieID, title, content, spoilers, ts, ts,
	).Scan(&r.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("review for movie %d: %w", movieID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return r, nil
}

// GetReview fetches one review by id.
func (db *DB) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	return db.getReview(ctx, `id = ?`, id)
}

// GetUserMovieReview fetches the user's review for one movie.
func (db *DB) GetUserMovieReview(ctx context.Context, userID, movieID int64) (*models.Review, error) {
	return db.getReview(ctx, `user_id = ? AND movie_id = ?`, userID, movieID)
}

func (db *DB) getReview(ctx context.Context, where string, args ...interface{}) (*models.Review, error) {
	r := &models.Review{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE `+where, args...,
	).Scan(&r.ID, &r.UserID, &r.MovieID, &r.Title, &r.Content, &r.ContainsSpoilers, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return r, nil
}

// UpdateReview modifies the caller's own review. Other users' reviews
// surface as not found.
func (db *DB) UpdateReview(ctx context.Context, userID, reviewID int64, title, content string, spoilers bool) (*models.Review, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE reviews SET title = ?, content = ?, contains_spoilers = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, content, spoilers, now(), reviewID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("review: %w", ErrNotFound)
	}
	return db.GetReview(ctx, reviewID)
}

// DeleteReview removes the caller's own review.
func (db *DB) DeleteReview(ctx context.Context, userID, reviewID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM reviews WHERE id = ? AND user_id = ?`, reviewID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("review: %w", ErrNotFound)
	}
	return nil
}

// ListMovieReviews returns reviews for a movie, newest first.
// spoilers: nil for all, otherwise filter on contains_spoilers.
func (db *DB) ListMovieReviews(ctx context.Context, movieID int64, spoilers *bool, skip, limit int) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE movie_id = ?`
	args := []interface{}{movieID}
	if spoilers != nil {
		query += ` AND contains_spoilers = ?`
		args = append(args, *spoilers)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	return db.queryReviews(ctx, query, args...)
}

// ListUserReviews returns a user's reviews, newest first.
func (db *DB) ListUserReviews(ctx context.Context, userID int64, skip, limit int) ([]models.Review, error) {
	return db.queryReviews(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, skip)
}

// ListRecentReviews returns the newest reviews across all users,
// optionally filtered to one user. Zero means no filter.
func (db *DB) ListRecentReviews(ctx context.Context, userID int64, limit int) ([]models.Review, error) {
	if userID != 0 {
		return db.queryReviews(ctx,
			`SELECT `+reviewColumns+` FROM reviews WHERE user_id = ?
			 ORDER BY created_at DESC LIMIT ?`, userID, limit)
	}
	return db.queryReviews(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC LIMIT ?`, limit)
}

func (db *DB) queryReviews(ctx context.Context, query string, args ...interface{}) ([]models.Review, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Title, &r.Content, &r.ContainsSpoilers, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

// GetMovieReviewStats aggregates review counts for one movie.
func (db *DB) GetMovieReviewStats(ctx context.Context, movieID int64) (*models.MovieReviewStats, error) {
	stats := &models.MovieReviewStats{MovieID: movieID}
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COUNT(*) FILTER (WHERE contains_spoilers),
			COUNT(*) FILTER (WHERE NOT contains_spoilers)
		 FROM reviews WHERE movie_id = ?`, movieID,
	).Scan(&stats.TotalReviews, &stats.WithSpoilers, &stats.WithoutSpoilers)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}
	return stats, nil
}
