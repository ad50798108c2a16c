// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package models

import "time"

// Like marks a user's appreciation of a target. One per
// (user, target_type, target_id); liking again removes it.
type Like struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Comment is a message attached to a target. ParentID is set on replies;
// replies share the parent's (target_type, target_id).
type Comment struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	Content    string     `json:"content"`
	ParentID   *int64     `json:"parent_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CommentView is a comment decorated with its social counts for listing.
type CommentView struct {
	Comment
	Author       UserRef `json:"author"`
	RepliesCount int     `json:"replies_count"`
	LikesCount   int     `json:"likes_count"`
	UserHasLiked bool    `json:"user_has_liked"`
}

// InteractionStats summarizes the social state of one target for one viewer.
type InteractionStats struct {
	TargetType       TargetType `json:"target_type"`
	TargetID         int64      `json:"target_id"`
	LikesCount       int        `json:"likes_count"`
	CommentsCount    int        `json:"comments_count"`
	UserHasLiked     bool       `json:"user_has_liked"`
	UserHasCommented bool       `json:"user_has_commented"`
}
