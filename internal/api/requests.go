// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/fkenzio/movie-social-backend/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Request payloads. Validation tags are enforced by decodeAndValidate.

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type rateMovieRequest struct {
	MovieID int64   `json:"movie_id" validate:"required,gt=0"`
	Rating  float64 `json:"rating" validate:"required,ratingstep"`
}

type createReviewRequest struct {
	MovieID          int64  `json:"movie_id" validate:"required,gt=0"`
	Title            string `json:"title" validate:"required,min=1,max=200"`
	Content          string `json:"content" validate:"required,min=10,max=10000"`
	ContainsSpoilers bool   `json:"contains_spoilers"`
}

type updateReviewRequest struct {
	Title            string `json:"title" validate:"required,min=1,max=200"`
	Content          string `json:"content" validate:"required,min=10,max=10000"`
	ContainsSpoilers bool   `json:"contains_spoilers"`
}

type createListRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Description     string `json:"description" validate:"max=1000"`
	IsPublic        *bool  `json:"is_public"`
	IsCollaborative bool   `json:"is_collaborative"`
}

type updateListRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Description     string `json:"description" validate:"max=1000"`
	IsPublic        bool   `json:"is_public"`
	IsCollaborative bool   `json:"is_collaborative"`
}

type addListMovieRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}

type toggleLikeRequest struct {
	TargetType string `json:"target_type" validate:"required,targettype"`
	TargetID   int64  `json:"target_id" validate:"required,gt=0"`
}

type createCommentRequest struct {
	TargetType string `json:"target_type" validate:"required,targettype"`
	TargetID   int64  `json:"target_id" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
	ParentID   *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// decodeAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes the error response and returns false.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(rw.w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		rw.BadRequest(fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return false
	}
	return true
}

// pathID parses a positive int64 URL parameter. Writes a 400 and
// returns false on failure.
func pathID(rw *ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		rw.BadRequest(fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryBool parses a boolean query parameter; absent or malformed
// returns (false, false).
func queryBool(r *http.Request, name string) (value, ok bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

// pagination holds normalized skip/limit query parameters.
type pagination struct {
	Skip  int
	Limit int
}

// paginationParams clamps skip/limit to the configured bounds.
func (h *Handler) paginationParams(r *http.Request) pagination {
	skip := queryInt(r, "skip", 0)
	if skip < 0 {
		skip = 0
	}
	limit := queryInt(r, "limit", h.cfg.API.DefaultPageSize)
	if limit <= 0 {
		limit = h.cfg.API.DefaultPageSize
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}
	return pagination{Skip: skip, Limit: limit}
}
