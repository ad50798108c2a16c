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
	"strings"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

const commentColumns = `id, user_id, target_type, target_id, content, parent_id, created_at, updated_at`

// ToggleLike likes an unliked target and unlikes a liked one. Returns
// the resulting liked state.
func (db *DB) ToggleLike(ctx context.Context, userID int64, targetType models.TargetType, targetID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND target_type = ? AND target_id = ?`,
		userID, string(targetType), targetID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO likes (user_id, target_type, target_id, created_at) VALUES (?, ?, ?, ?)`,
		userID, string(targetType), targetID, now())
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return true, nil
}

// CreateComment inserts a comment or a reply. Replies must reference an
// existing parent on the same target.
func (db *DB) CreateComment(ctx context.Context, userID int64, targetType models.TargetType, targetID int64, content string, parentID *int64) (*models.Comment, error) {
	if parentID != nil {
		parent, err := db.GetComment(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("parent comment: %w", ErrNotFound)
		}
		if parent.TargetType != targetType || parent.TargetID != targetID {
			return nil, fmt.Errorf("parent comment belongs to a different target: %w", ErrNotFound)
		}
	}

	ts := now()
	c := &models.Comment{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		Content:    content,
		ParentID:   parentID,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO comments (user_id, target_type, target_id, content, parent_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		userID, string(targetType), targetID, content, parentID, ts, ts,
	).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return c, nil
}

// GetComment fetches one comment by id.
func (db *DB) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.TargetType, &c.TargetID, &c.Content, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// UpdateComment modifies the caller's own comment.
func (db *DB) UpdateComment(ctx context.Context, userID, commentID int64, content string) (*models.Comment, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		content, now(), commentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("comment: %w", ErrNotFound)
	}
	return db.GetComment(ctx, commentID)
}

// DeleteComment removes the caller's own comment and its replies.
func (db *DB) DeleteComment(ctx context.Context, userID, commentID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE id = ? AND user_id = ?`, commentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment: %w", ErrNotFound)
	}

	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE parent_id = ?`, commentID); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}
	return nil
}

// ListComments returns top-level comments on a target, newest first,
// decorated with reply and like counts for the viewer.
func (db *DB) ListComments(ctx context.Context, targetType models.TargetType, targetID, viewerID int64, skip, limit int) ([]models.CommentView, error) {
	return db.queryCommentViews(ctx, viewerID,
		`SELECT `+commentColumns+` FROM comments
		 WHERE target_type = ? AND target_id = ? AND parent_id IS NULL
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		string(targetType), targetID, limit, skip)
}

// ListReplies returns a comment's replies, oldest first.
func (db *DB) ListReplies(ctx context.Context, parentID, viewerID int64) ([]models.CommentView, error) {
	return db.queryCommentViews(ctx, viewerID,
		`SELECT `+commentColumns+` FROM comments
		 WHERE parent_id = ? ORDER BY created_at ASC`, parentID)
}

func (db *DB) queryCommentViews(ctx context.Context, viewerID int64, query string, args ...interface{}) ([]models.CommentView, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var views []models.CommentView
	for rows.Next() {
		var v models.CommentView
		if err := rows.Scan(&v.ID, &v.UserID, &v.TargetType, &v.TargetID, &v.Content, &v.ParentID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Decorate after the scan loop; DuckDB serves one statement per
	// connection at a time.
	userIDs := make([]int64, 0, len(views))
	for i := range views {
		userIDs = append(userIDs, views[i].UserID)
	}
	refs, err := db.UserRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range views {
		v := &views[i]
		v.Author = refs[v.UserID]

		if err := db.conn.QueryRowContext(ctx,
			`SELECT
				(SELECT COUNT(*) FROM comments WHERE parent_id = ?),
				(SELECT COUNT(*) FROM likes WHERE target_type = 'comment' AND target_id = ?),
				(SELECT COUNT(*) > 0 FROM likes WHERE target_type = 'comment' AND target_id = ? AND user_id = ?)`,
			v.ID, v.ID, v.ID, viewerID,
		).Scan(&v.RepliesCount, &v.LikesCount, &v.UserHasLiked); err != nil {
			return nil, fmt.Errorf("failed to decorate comment: %w", err)
		}
	}

	return views, nil
}

// GetInteractionStats returns the social counters of one target as seen
// by the viewer.
func (db *DB) GetInteractionStats(ctx context.Context, targetType models.TargetType, targetID, viewerID int64) (*models.InteractionStats, error) {
	stats := &models.InteractionStats{TargetType: targetType, TargetID: targetID}
	err := db.conn.QueryRowContext(ctx,
		`SELECT
			(SELECT COUNT(*) FROM likes WHERE target_type = ? AND target_id = ?),
			(SELECT COUNT(*) FROM comments WHERE target_type = ? AND target_id = ?),
			(SELECT COUNT(*) > 0 FROM likes WHERE target_type = ? AND target_id = ? AND user_id = ?),
			(SELECT COUNT(*) > 0 FROM comments WHERE target_type = ? AND target_id = ? AND user_id = ?)`,
		string(targetType), targetID,
		string(targetType), targetID,
		string(targetType), targetID, viewerID,
		string(targetType), targetID, viewerID,
	).Scan(&stats.LikesCount, &stats.CommentsCount, &stats.UserHasLiked, &stats.UserHasCommented)
	if err != nil {
		return nil, fmt.Errorf("failed to get interaction stats: %w", err)
	}
	return stats, nil
}

// InteractionStatsFor returns stats keyed by target id for a batch of
// targets of the same type. One grouped query per table regardless of
// batch size; the feed aggregator joins the result onto activities.
func (db *DB) InteractionStatsFor(ctx context.Context, targetType models.TargetType, targetIDs []int64, viewerID int64) (map[int64]models.InteractionStats, error) {
	result := make(map[int64]models.InteractionStats, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	for _, id := range targetIDs {
		result[id] = models.InteractionStats{TargetType: targetType, TargetID: id}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(targetIDs)), ", ")
	args := make([]interface{}, 0, len(targetIDs)+2)
	args = append(args, viewerID, string(targetType))
	for _, id := range targetIDs {
		args = append(args, id)
	}

	likes, err := db.conn.QueryContext(ctx,
		`SELECT target_id, COUNT(*), COUNT(*) FILTER (WHERE user_id = ?) > 0
		 FROM likes
		 WHERE target_type = ? AND target_id IN (`+placeholders+`)
		 GROUP BY target_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	defer likes.Close()
	for likes.Next() {
		var id int64
		var count int
		var mine bool
		if err := likes.Scan(&id, &count, &mine); err != nil {
			return nil, fmt.Errorf("failed to scan like counts: %w", err)
		}
		s := result[id]
		s.LikesCount = count
		s.UserHasLiked = mine
		result[id] = s
	}
	if err := likes.Err(); err != nil {
		return nil, err
	}

	comments, err := db.conn.QueryContext(ctx,
		`SELECT target_id, COUNT(*), COUNT(*) FILTER (WHERE user_id = ?) > 0
		 FROM comments
		 WHERE target_type = ? AND target_id IN (`+placeholders+`)
		 GROUP BY target_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	defer comments.Close()
	for comments.Next() {
		var id int64
		var count int
		var mine bool
		if err := comments.Scan(&id, &count, &mine); err != nil {
			return nil, fmt.Errorf("failed to scan comment counts: %w", err)
		}
		s := result[id]
		s.CommentsCount = count
		s.UserHasCommented = mine
		result[id] = s
	}
	if err := comments.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// TargetOwner resolves who owns a likeable/commentable target. The
// notification service uses this to pick the recipient.
func (db *DB) TargetOwner(ctx context.Context, targetType models.TargetType, targetID int64) (int64, error) {
	var table string
	switch targetType {
	case models.TargetRating:
		table = "ratings"
	case models.TargetReview:
		table = "reviews"
	case models.TargetList:
		table = "lists"
	case models.TargetComment:
		table = "comments"
	default:
		return 0, fmt.Errorf("unknown target type %q: %w", targetType, ErrNotFound)
	}

	var ownerID int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id FROM `+table+` WHERE id = ?`, targetID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s %d: %w", targetType, targetID, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve target owner: %w", err)
	}
	return ownerID, nil
}

// TargetMovie resolves the movie a rating or review target refers to.
// Other target types have no movie; ok is false.
func (db *DB) TargetMovie(ctx context.Context, targetType models.TargetType, targetID int64) (int64, bool, error) {
	var table string
	switch targetType {
	case models.TargetRating:
		table = "ratings"
	case models.TargetReview:
		table = "reviews"
	default:
		return 0, false, nil
	}

	var movieID int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT movie_id FROM `+table+` WHERE id = ?`, targetID).Scan(&movieID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve target movie: %w", err)
	}
	return movieID, true, nil
}
