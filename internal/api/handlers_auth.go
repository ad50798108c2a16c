// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"errors"
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/middleware"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// sessionResponse is the register/login payload.
type sessionResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
}

// Register creates an account and returns a session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req registerRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			rw.Conflict("username or email already registered")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Created(sessionResponse{
		User:      user,
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(h.auth.JWT().Expiry().Seconds()),
	})
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req loginRequest
	if !decodeAndValidate(rw, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			rw.Unauthorized("invalid username or password")
			return
		}
		rw.DatabaseError(err)
		return
	}

	rw.Success(sessionResponse{
		User:      user,
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(h.auth.JWT().Expiry().Seconds()),
	})
}

// Me returns the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	user, err := h.db.GetUserByID(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(user)
}

// UserStats returns catalogue totals for a user.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, ok := pathID(rw, r, "userID")
	if !ok {
		return
	}
	if _, err := h.db.GetUserByID(r.Context(), userID); err != nil {
		h.storeError(rw, err)
		return
	}

	stats, err := h.db.GetUserStats(r.Context(), userID)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(stats)
}
