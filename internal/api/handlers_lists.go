// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
)

// CreateList creates a movie list. Lists default to public.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req createListRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	list, err := h.db.CreateList(r.Context(), middleware.UserID(r.Context()), req.Name, req.Description, isPublic, req.IsCollaborative)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Created(list)
}

// MyLists returns the caller's lists.
func (h *Handler) MyLists(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	p := h.paginationParams(r)
	lists, err := h.db.ListUserLists(r.Context(), middleware.UserID(r.Context()), p.Skip, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(lists)
}

// List returns one list. Private lists are visible to their owner only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}

	list, err := h.db.GetList(r.Context(), listID, middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(list)
}

// UpdateList edits the caller's list.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}

	var req updateListRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	list, err := h.db.UpdateList(r.Context(), middleware.UserID(r.Context()), listID, req.Name, req.Description, req.IsPublic, req.IsCollaborative)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(list)
}

// DeleteList removes the caller's list and its memberships.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}

	if err := h.db.DeleteList(r.Context(), middleware.UserID(r.Context()), listID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}

// AddListMovie appends a movie to the caller's list.
func (h *Handler) AddListMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}

	var req addListMovieRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	entry, err := h.db.AddMovieToList(r.Context(), middleware.UserID(r.Context()), listID, req.MovieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Created(entry)
}

// RemoveListMovie removes a movie from the caller's list.
func (h *Handler) RemoveListMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}
	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	if err := h.db.RemoveMovieFromList(r.Context(), middleware.UserID(r.Context()), listID, movieID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}

// ListMovies returns a list's entries in position order.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	listID, ok := pathID(rw, r, "listID")
	if !ok {
		return
	}

	movies, err := h.db.ListMovies(r.Context(), listID, middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(movies)
}

// ListsContainingMovie reports which of the caller's lists hold a movie.
func (h *Handler) ListsContainingMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, ok := pathID(rw, r, "movieID")
	if !ok {
		return
	}

	listIDs, err := h.db.ListsContainingMovie(r.Context(), middleware.UserID(r.Context()), movieID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"movie_id": movieID,
		"list_ids": listIDs,
	})
}
