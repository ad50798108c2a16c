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

	"github.com/fkenzio/movie-social-backend/internal/models"
)

// UpsertRating creates or overwrites the caller's rating for a movie.
// The value must already be validated to the half-step scale.
func (db *DB) UpsertRating(ctx context.Context, userID, movieID int64, value float64) (*models.Rating, error) {
	ts := now()

	existing, err := db.GetRating(ctx, userID, movieID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		_, err = db.conn.ExecContext(ctx,
			`UPDATE ratings SET rating = ?, updated_at = ? WHERE id = ?`,
			value, ts, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update rating: %w", err)
		}
		existing.Rating = value
		existing.UpdatedAt = ts
		return existing, nil
	}

	r := &models.Rating{UserID: userID, MovieID: movieID, Rating: value, CreatedAt: ts, UpdatedAt: ts}
	err = db.conn.QueryRowContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		userID, movieID, value, ts, ts,
	).Scan(&r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rating: %w", err)
	}
	return r, nil
}

// GetRating fetches one user's rating for one movie.
func (db *DB) GetRating(ctx context.Context, userID, movieID int64) (*models.Rating, error) {
	r := &models.Rating{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, movie_id, rating, created_at, updated_at
		 FROM ratings WHERE user_id = ? AND movie_id = ?`,
		userID, movieID,
	).Scan(&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("rating: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return r, nil
}

// DeleteRating removes the caller's rating. ErrNotFound when absent.
func (db *DB) DeleteRating(ctx context.Context, userID, movieID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND movie_id = ?`, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("rating: %w", ErrNotFound)
	}
	return nil
}

// CountRatingsByUser returns how many movies the user has rated.
func (db *DB) CountRatingsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}

// GetMovieRatingStats aggregates local ratings for one movie, including
// the "1.0".."5.0" distribution buckets.
func (db *DB) GetMovieRatingStats(ctx context.Context, movieID int64) (*models.MovieRatingStats, error) {
	stats := &models.MovieRatingStats{
		MovieID:      movieID,
		Distribution: make(map[string]int),
	}
	for _, bucket := range []string{"1.0", "1.5", "2.0", "2.5", "3.0", "3.5", "4.0", "4.5", "5.0"} {
		stats.Distribution[bucket] = 0
	}

	var avg sql.NullFloat64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(rating) FROM ratings WHERE movie_id = ?`, movieID,
	).Scan(&stats.TotalRatings, &avg)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating stats: %w", err)
	}
	if avg.Valid {
		rounded := math.Round(avg.Float64*10) / 10
		stats.AverageRating = &rounded
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT rating, COUNT(*) FROM ratings WHERE movie_id = ? GROUP BY rating`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating distribution: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var value float64
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		stats.Distribution[fmt.Sprintf("%.1f", value)] = count
	}

	return stats, rows.Err()
}

// ListRecentRatings returns the newest ratings, optionally filtered to
// one user and one movie. Zero means no filter.
func (db *DB) ListRecentRatings(ctx context.Context, userID, movieID int64, limit int) ([]models.Rating, error) {
	query := `SELECT id, user_id, movie_id, rating, created_at, updated_at FROM ratings`
	var args []interface{}
	where := ""
	if userID != 0 {
		where = " WHERE user_id = ?"
		args = append(args, userID)
	}
	if movieID != 0 {
		if where == "" {
			where = " WHERE movie_id = ?"
		} else {
			where += " AND movie_id = ?"
		}
		args = append(args, movieID)
	}
	query += where + ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}

// RatingVector returns the user's movie->rating map.
func (db *DB) RatingVector(ctx context.Context, userID int64) (map[int64]float64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, rating FROM ratings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating vector: %w", err)
	}
	defer closeWithLog(rows, "rows")

	vector := make(map[int64]float64)
	for rows.Next() {
		var movieID int64
		var value float64
		if err := rows.Scan(&movieID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan rating vector: %w", err)
		}
		vector[movieID] = value
	}

	return vector, rows.Err()
}

// RatingVectors returns movie->rating maps for every user except
// excludeUser with at least minRatings ratings. This feeds the
// similarity engine.
func (db *DB) RatingVectors(ctx context.Context, excludeUser int64, minRatings int) (map[int64]map[int64]float64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT r.user_id, r.movie_id, r.rating
		 FROM ratings r
		 WHERE r.user_id != ?
		   AND r.user_id IN (
			SELECT user_id FROM ratings GROUP BY user_id HAVING COUNT(*) >= ?
		   )`,
		excludeUser, minRatings)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating vectors: %w", err)
	}
	defer closeWithLog(rows, "rows")

	vectors := make(map[int64]map[int64]float64)
	for rows.Next() {
		var userID, movieID int64
		var value float64
		if err := rows.Scan(&userID, &movieID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan rating vectors: %w", err)
		}
		if vectors[userID] == nil {
			vectors[userID] = make(map[int64]float64)
		}
		vectors[userID][movieID] = value
	}

	return vectors, rows.Err()
}

// RatingsAboveByUsers returns ratings of at least minRating from the
// given users. The recommendation generator aggregates these into
// candidate scores.
func (db *DB) RatingsAboveByUsers(ctx context.Context, userIDs []int64, minRating float64) ([]models.Rating, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders, args := inClause(userIDs)
	args = append(args, minRating)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, movie_id, rating, created_at, updated_at
		 FROM ratings WHERE user_id IN (`+placeholders+`) AND rating >= ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings by users: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.MovieID, &r.Rating, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}

// RatedMovieIDs returns the set of movies the user has rated.
func (db *DB) RatedMovieIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id FROM ratings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rated movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	seen := make(map[int64]bool)
	for rows.Next() {
		var movieID int64
		if err := rows.Scan(&movieID); err != nil {
			return nil, fmt.Errorf("failed to scan movie id: %w", err)
		}
		seen[movieID] = true
	}

	return seen, rows.Err()
}
