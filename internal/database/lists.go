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

const listColumns = `l.id, l.user_id, l.name, l.description, l.is_public, l.is_collaborative,
	(SELECT COUNT(*) FROM list_movies lm WHERE lm.list_id = l.id),
	l.created_at, l.updated_at`

// CreateList inserts a new movie list.
func (db *DB) CreateList(ctx context.Context, userID int64, name, description string, isPublic, isCollaborative bool) (*models.MovieList, error) {
	ts := now()
	l := &models.MovieList{
		UserID:          userID,
		Name:            name,
		Description:     description,
		IsPublic:        isPublic,
		IsCollaborative: isCollaborative,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO lists (user_id, name, description, is_public, is_collaborative, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID, name, description, isPublic, isCollaborative, ts, ts,
	).Scan(&l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return l, nil
}

// GetList fetches one list with its movie count. viewerID gates private
// lists: a private list belonging to someone else returns ErrForbidden.
func (db *DB) GetList(ctx context.Context, listID, viewerID int64) (*models.MovieList, error) {
	l := &models.MovieList{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists l WHERE l.id = ?`, listID,
	).Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic, &l.IsCollaborative,
		&l.MoviesCount, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	if !l.IsPublic && l.UserID != viewerID {
		return nil, fmt.Errorf("list %d: %w", listID, ErrForbidden)
	}

	return l, nil
}

// ListUserLists returns the user's own lists, newest first.
func (db *DB) ListUserLists(ctx context.Context, userID int64, skip, limit int) ([]models.MovieList, error) {
	return db.queryLists(ctx,
		`SELECT `+listColumns+` FROM lists l WHERE l.user_id = ?
		 ORDER BY l.created_at DESC LIMIT ? OFFSET ?`,
		userID, limit, skip)
}

// ListRecentLists returns the newest public lists, optionally filtered to
// one user. Zero means no filter; a user sees their own private lists.
func (db *DB) ListRecentLists(ctx context.Context, userID int64, limit int) ([]models.MovieList, error) {
	if userID != 0 {
		return db.queryLists(ctx,
			`SELECT `+listColumns+` FROM lists l WHERE l.user_id = ?
			 ORDER BY l.created_at DESC LIMIT ?`, userID, limit)
	}
	return db.queryLists(ctx,
		`SELECT `+listColumns+` FROM lists l WHERE l.is_public
		 ORDER BY l.created_at DESC LIMIT ?`, limit)
}

func (db *DB) queryLists(ctx context.Context, query string, args ...interface{}) ([]models.MovieList, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var lists []models.MovieList
	for rows.Next() {
		var l models.MovieList
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic, &l.IsCollaborative,
			&l.MoviesCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}

	return lists, rows.Err()
}

// UpdateList modifies the caller's own list.
func (db *DB) UpdateList(ctx context.Context, userID, listID int64, name, description string, isPublic, isCollaborative bool) (*models.MovieList, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE lists SET name = ?, description = ?, is_public = ?, is_collaborative = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		name, description, isPublic, isCollaborative, now(), listID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("list: %w", ErrNotFound)
	}
	return db.GetList(ctx, listID, userID)
}

// DeleteList removes the caller's own list and its entries.
func (db *DB) DeleteList(ctx context.Context, userID, listID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ? AND user_id = ?`, listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("list: %w", ErrNotFound)
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM list_movies WHERE list_id = ?`, listID); err != nil {
		return fmt.Errorf("failed to delete list entries: %w", err)
	}
	return nil
}

// AddMovieToList appends a movie to the caller's list. Returns
// ErrDuplicate when the movie is already on it.
func (db *DB) AddMovieToList(ctx context.Context, userID, listID, movieID int64) (*models.ListMovie, error) {
	if _, err := db.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	var position int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM list_movies WHERE list_id = ?`, listID,
	).Scan(&position)
	if err != nil {
		return nil, fmt.Errorf("failed to compute list position: %w", err)
	}

	lm := &models.ListMovie{ListID: listID, MovieID: movieID, Position: position, AddedAt: now()}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO list_movies (list_id, movie_id, position, added_at) VALUES (?, ?, ?, ?)`,
		listID, movieID, position, lm.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("movie %d already on list: %w", movieID, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to add movie to list: %w", err)
	}

	db.touchList(ctx, listID)
	return lm, nil
}

// RemoveMovieFromList removes a movie from the caller's list.
func (db *DB) RemoveMovieFromList(ctx context.Context, userID, listID, movieID int64) error {
	if _, err := db.ownedList(ctx, userID, listID); err != nil {
		return err
	}

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM list_movies WHERE list_id = ? AND movie_id = ?`, listID, movieID)
	if err != nil {
		return fmt.Errorf("failed to remove movie from list: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("movie %d on list %d: %w", movieID, listID, ErrNotFound)
	}

	db.touchList(ctx, listID)
	return nil
}

// ListMovies returns a list's entries in position order. Visibility
// follows GetList.
func (db *DB) ListMovies(ctx context.Context, listID, viewerID int64) ([]models.ListMovie, error) {
	if _, err := db.GetList(ctx, listID, viewerID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT list_id, movie_id, position, added_at FROM list_movies
		 WHERE list_id = ? ORDER BY position`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var entries []models.ListMovie
	for rows.Next() {
		var lm models.ListMovie
		if err := rows.Scan(&lm.ListID, &lm.MovieID, &lm.Position, &lm.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list movie: %w", err)
		}
		entries = append(entries, lm)
	}

	return entries, rows.Err()
}

// ListsContainingMovie returns ids of the caller's lists that contain
// the movie.
func (db *DB) ListsContainingMovie(ctx context.Context, userID, movieID int64) ([]int64, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT l.id FROM lists l
		 JOIN list_movies lm ON lm.list_id = l.id
		 WHERE l.user_id = ? AND lm.movie_id = ?
		 ORDER BY l.id`, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists containing movie: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ownedList fetches a list only when it belongs to userID, surfacing
// other users' lists as not found.
func (db *DB) ownedList(ctx context.Context, userID, listID int64) (*models.MovieList, error) {
	l, err := db.GetList(ctx, listID, userID)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, fmt.Errorf("list: %w", ErrNotFound)
		}
		return nil, err
	}
	if l.UserID != userID {
		return nil, fmt.Errorf("list: %w", ErrNotFound)
	}
	return l, nil
}

// touchList bumps the list's updated_at. Best effort.
func (db *DB) touchList(ctx context.Context, listID int64) {
	if _, err := db.conn.ExecContext(ctx,
		`UPDATE lists SET updated_at = ? WHERE id = ?`, now(), listID); err != nil {
		// A stale updated_at is harmless; the entry change itself landed.
		return
	}
}
