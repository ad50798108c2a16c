// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/middleware"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

const (
	// sseHeartbeat keeps idle EventSource connections alive through
	// proxies that reap silent streams.
	sseHeartbeat = 30 * time.Second

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// NotificationStream serves notifications over Server-Sent Events.
// EventSource cannot set headers, so authentication arrives via the
// `token` query parameter, resolved by the Authenticate middleware.
func (h *Handler) NotificationStream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		NewResponseWriter(w, r).InternalError("streaming not supported")
		return
	}

	ch := h.notify.Registry().Subscribe(userID)
	if ch == nil {
		NewResponseWriter(w, r).InternalError("notification stream is shutting down")
		return
	}
	defer h.notify.Registry().Unsubscribe(userID, ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	logging.Ctx(r.Context()).Info().
		Int64("user_id", userID).
		Str("username", middleware.Username(r.Context())).
		Msg("sse stream opened")

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			logging.Ctx(r.Context()).Debug().Int64("user_id", userID).Msg("sse stream closed by client")
			return

		case event, open := <-ch:
			if !open {
				// Registry shut down.
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal sse event")
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced by the router; the websocket endpoint
		// accepts the same origins.
		return true
	},
}

// NotificationSocket serves notifications over a WebSocket. The same
// subscriber registry feeds both stream transports.
func (h *Handler) NotificationSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ch := h.notify.Registry().Subscribe(userID)
	if ch == nil {
		_ = conn.Close()
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("user_id", userID).
		Str("username", middleware.Username(r.Context())).
		Msg("websocket stream opened")

	done := make(chan struct{})
	go h.socketReadPump(conn, done)
	h.socketWritePump(conn, ch, done)

	h.notify.Registry().Unsubscribe(userID, ch)
	_ = conn.Close()
}

// socketReadPump drains client frames so pong handlers run, and signals
// when the peer goes away.
func (h *Handler) socketReadPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
	}
}

// socketWritePump forwards events and keeps the connection alive with
// pings.
func (h *Handler) socketWritePump(conn *websocket.Conn, ch chan models.NotificationEvent, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case event, open := <-ch:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
