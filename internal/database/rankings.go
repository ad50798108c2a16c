// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package database

import (
	"context"
	"fmt"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

// UsersTopRated ranks movies by community average rating. Only movies
// with at least minRatings ratings qualify; ties are broken by rating
// count. Returns the requested page with rank numbers continuing across
// pages, plus the total number of qualifying movies.
func (db *DB) UsersTopRated(ctx context.Context, minRatings, skip, limit int) ([]models.RankingEntry, int, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT movie_id, ROUND(AVG(rating), 1), COUNT(*)
		 FROM ratings
		 GROUP BY movie_id
		 HAVING COUNT(*) >= ?
		 ORDER BY AVG(rating) DESC, COUNT(*) DESC, movie_id
		 LIMIT ? OFFSET ?`,
		minRatings, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to rank movies: %w", err)
	}
	defer rows.Close()

	var entries []models.RankingEntry
	rank := skip + 1
	for rows.Next() {
		e := models.RankingEntry{Rank: rank}
		if err := rows.Scan(&e.MovieID, &e.UsersAverage, &e.TotalRatings); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		entries = append(entries, e)
		rank++
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (
			SELECT movie_id FROM ratings GROUP BY movie_id HAVING COUNT(*) >= ?
		 )`, minRatings).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count ranked movies: %w", err)
	}

	return entries, total, nil
}
