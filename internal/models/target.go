// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package models defines the domain types shared across the Cinegraph
// stores, services, and API surface.
package models

// TargetType identifies what kind of entity a like, comment, or
// notification points at.
type TargetType string

const (
	TargetRating  TargetType = "rating"
	TargetReview  TargetType = "review"
	TargetList    TargetType = "list"
	TargetComment TargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetRating, TargetReview, TargetList, TargetComment:
		return true
	}
	return false
}

// NotificationType identifies the action that produced a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
)
