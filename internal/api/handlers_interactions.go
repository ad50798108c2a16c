// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"
	"strconv"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/middleware"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// ToggleLike flips the caller's like on a target. A like on someone
// else's content notifies its owner.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req toggleLikeRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	userID := middleware.UserID(r.Context())
	targetType := models.TargetType(req.TargetType)

	liked, err := h.db.ToggleLike(r.Context(), userID, targetType, req.TargetID)
	if err != nil {
		h.storeError(rw, err)
		return
	}

	if liked {
		if err := h.notify.NotifyLike(r.Context(), userID, targetType, req.TargetID); err != nil {
			// The like itself succeeded.
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to send like notification")
		}
	}

	rw.Success(map[string]bool{"liked": liked})
}

// CreateComment attaches a comment (or reply) to a target and notifies
// the interested party.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createCommentRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	comment, err := h.db.CreateComment(r.Context(), middleware.UserID(r.Context()), models.TargetType(req.TargetType), req.TargetID, req.Content, req.ParentID)
	if err != nil {
		h.storeError(rw, err)
		return
	}

	if err := h.notify.NotifyComment(r.Context(), comment); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to send comment notification")
	}

	rw.Created(comment)
}

// Comments lists a target's top-level comments, newest first.
func (h *Handler) Comments(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	targetType, targetID, ok := targetParams(rw, r)
	if !ok {
		return
	}

	p := h.paginationParams(r)
	comments, err := h.db.ListComments(r.Context(), targetType, targetID, middleware.UserID(r.Context()), p.Skip, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(comments)
}

// CommentReplies lists a comment's replies, oldest first.
func (h *Handler) CommentReplies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	commentID, ok := pathID(rw, r, "commentID")
	if !ok {
		return
	}

	replies, err := h.db.ListReplies(r.Context(), commentID, middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(replies)
}

// UpdateComment edits the caller's comment.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	commentID, ok := pathID(rw, r, "commentID")
	if !ok {
		return
	}

	var req updateCommentRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	comment, err := h.db.UpdateComment(r.Context(), middleware.UserID(r.Context()), commentID, req.Content)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(comment)
}

// DeleteComment removes the caller's comment and its replies.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	commentID, ok := pathID(rw, r, "commentID")
	if !ok {
		return
	}

	if err := h.db.DeleteComment(r.Context(), middleware.UserID(r.Context()), commentID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}

// InteractionStats returns the social counters for one target.
func (h *Handler) InteractionStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	targetType, targetID, ok := targetParams(rw, r)
	if !ok {
		return
	}

	stats, err := h.db.GetInteractionStats(r.Context(), targetType, targetID, middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(stats)
}

// targetParams parses and validates target_type/target_id query
// parameters.
func targetParams(rw *ResponseWriter, r *http.Request) (models.TargetType, int64, bool) {
	targetType := models.TargetType(r.URL.Query().Get("target_type"))
	if !targetType.Valid() {
		rw.BadRequest("target_type must be one of: rating, review, list, comment")
		return "", 0, false
	}

	targetID, err := strconv.ParseInt(r.URL.Query().Get("target_id"), 10, 64)
	if err != nil || targetID <= 0 {
		rw.BadRequest("invalid target_id")
		return "", 0, false
	}
	return targetType, targetID, true
}
