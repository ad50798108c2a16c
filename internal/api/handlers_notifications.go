// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"

	"github.com/fkenzio/movie-social-backend/internal/middleware"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// Notifications lists the caller's notifications, newest first.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	unreadOnly, _ := queryBool(r, "unread_only")
	p := h.paginationParams(r)

	notifications, err := h.db.ListNotifications(r.Context(), middleware.UserID(r.Context()), unreadOnly, p.Skip, p.Limit)
	if err != nil {
		h.storeError(rw, err)
		return
	}

	events, err := h.notify.Events(r.Context(), notifications)
	if err != nil {
		h.storeError(rw, err)
		return
	}
	if events == nil {
		events = []models.NotificationEvent{}
	}
	rw.Success(events)
}

// NotificationStats returns the caller's total and unread counters.
func (h *Handler) NotificationStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	stats, err := h.db.GetNotificationStats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(stats)
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	notificationID, ok := pathID(rw, r, "notificationID")
	if !ok {
		return
	}

	if err := h.db.MarkNotificationRead(r.Context(), middleware.UserID(r.Context()), notificationID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(map[string]bool{"read": true})
}

// MarkAllNotificationsRead marks everything read and reports the count.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	count, err := h.db.MarkAllNotificationsRead(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.storeError(rw, err)
		return
	}
	rw.Success(map[string]int64{"marked_read": count})
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	notificationID, ok := pathID(rw, r, "notificationID")
	if !ok {
		return
	}

	if err := h.db.DeleteNotification(r.Context(), middleware.UserID(r.Context()), notificationID); err != nil {
		h.storeError(rw, err)
		return
	}
	rw.NoContent()
}
