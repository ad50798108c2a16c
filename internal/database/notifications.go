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
	"time"

	"github.com/fkenzio/movie-social-backend/internal/models"
)

const notificationColumns = `id, user_id, actor_id, type, target_type, target_id,
	movie_id, movie_title, content_preview, is_read, created_at`

// InsertNotification persists a new notification row.
func (db *DB) InsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	n.CreatedAt = now()
	n.IsRead = false

	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO notifications (user_id, actor_id, type, target_type, target_id, movie_id, movie_title, content_preview, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		n.UserID, n.ActorID, string(n.Type), string(n.TargetType), n.TargetID,
		n.MovieID, n.MovieTitle, n.ContentPreview, n.IsRead, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	return n, nil
}

// FindRecentDuplicate returns an existing notification with the same
// (recipient, actor, type, target) created within the window, or
// ErrNotFound. This backs the fan-out dedup check.
func (db *DB) FindRecentDuplicate(ctx context.Context, n *models.Notification, window time.Duration) (*models.Notification, error) {
	cutoff := now().Add(-window)

	existing := &models.Notification{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE user_id = ? AND actor_id = ? AND type = ? AND target_type = ? AND target_id = ?
		   AND created_at >= ?
		 ORDER BY created_at DESC LIMIT 1`,
		n.UserID, n.ActorID, string(n.Type), string(n.TargetType), n.TargetID, cutoff,
	).Scan(&existing.ID, &existing.UserID, &existing.ActorID, &existing.Type, &existing.TargetType,
		&existing.TargetID, &existing.MovieID, &existing.MovieTitle, &existing.ContentPreview,
		&existing.IsRead, &existing.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("duplicate notification: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check duplicate notification: %w", err)
	}

	return existing, nil
}

// ListNotifications returns the recipient's notifications, newest first.
func (db *DB) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, skip, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ActorID, &n.Type, &n.TargetType, &n.TargetID,
			&n.MovieID, &n.MovieTitle, &n.ContentPreview, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// GetNotificationStats returns total and unread counts for a recipient.
func (db *DB) GetNotificationStats(ctx context.Context, userID int64) (*models.NotificationStats, error) {
	stats := &models.NotificationStats{}
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read)
		 FROM notifications WHERE user_id = ?`, userID,
	).Scan(&stats.Total, &stats.Unread)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification stats: %w", err)
	}
	return stats, nil
}

// MarkNotificationRead marks one of the recipient's notifications read.
// Another user's notification surfaces as not found.
func (db *DB) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = ? AND user_id = ?`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

// MarkAllNotificationsRead marks all the recipient's notifications read
// and returns how many changed.
func (db *DB) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = ? AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count marked notifications: %w", err)
	}
	return n, nil
}

// DeleteNotification removes one of the recipient's notifications.
func (db *DB) DeleteNotification(ctx context.Context, userID, notificationID int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND user_id = ?`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}
