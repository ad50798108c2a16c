// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
)

// Feed returns the community-wide activity feed. Page is 1-indexed.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	page, pageSize := h.feedParams(r)
	result, err := h.feed.Global(r.Context(), middleware.UserID(r.Context()), page, pageSize)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(result)
}

// UserFeed returns one user's activity feed.
func (h *Handler) UserFeed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := pathID(rw, r, "userID")
	if !ok {
		return
	}
	if _, err := h.db.GetUserByID(r.Context(), userID); err != nil {
		h.storeError(rw, err)
		return
	}

	page, pageSize := h.feedParams(r)
	result, err := h.feed.User(r.Context(), userID, middleware.UserID(r.Context()), page, pageSize)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(result)
}

func (h *Handler) feedParams(r *http.Request) (page, pageSize int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = queryInt(r, "page_size", h.cfg.API.DefaultPageSize)
	if pageSize <= 0 {
		pageSize = h.cfg.API.DefaultPageSize
	}
	if pageSize > h.cfg.API.MaxPageSize {
		pageSize = h.cfg.API.MaxPageSize
	}
	return page, pageSize
}
