// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// Notification records that an actor did something to a recipient's
// content. The recipient is UserID; ActorID is who triggered it.
type Notification struct {
	ID             int64            `json:"id"`
	UserID         int64            `json:"user_id"`
	ActorID        int64            `json:"actor_id"`
	Type           NotificationType `json:"type"`
	TargetType     TargetType       `json:"target_type"`
	TargetID       int64            `json:"target_id"`
	MovieID        *int64           `json:"movie_id,omitempty"`
	MovieTitle     string           `json:"movie_title,omitempty"`
	ContentPreview string           `json:"content_preview,omitempty"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NotificationEvent is the wire shape pushed to live subscribers and
// returned from the REST listing. The actor is embedded so clients can
// render without a second lookup.
type NotificationEvent struct {
	ID             int64            `json:"id"`
	Type           NotificationType `json:"type"`
	Actor          UserRef          `json:"actor"`
	TargetType     TargetType       `json:"target_type"`
	TargetID       int64            `json:"target_id"`
	MovieID        *int64           `json:"movie_id,omitempty"`
	MovieTitle     string           `json:"movie_title,omitempty"`
	ContentPreview string           `json:"content_preview,omitempty"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NotificationStats is the unread counter payload.
type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}
