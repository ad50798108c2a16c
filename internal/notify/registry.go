// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

// Package notify creates notifications, persists them, and fans them out
// to live subscribers over SSE and WebSocket streams.
package notify

import (
	"sync"

	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/metrics"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// subscriberBuffer bounds each subscriber channel. A slow consumer loses
// messages instead of blocking the publisher.
const subscriberBuffer = 16

// Registry tracks live subscriber channels per user. All methods are safe
// for concurrent use.
type Registry struct {
	mu          sync.Mutex
	subscribers map[int64][]chan models.NotificationEvent
	closed      bool
}

// NewRegistry creates an empty subscriber registry.
func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[int64][]chan models.NotificationEvent)}
}

// Subscribe registers a new channel for the user. The caller must drain
// the channel and call Unsubscribe when done. Returns nil after Close.
func (r *Registry) Subscribe(userID int64) chan models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	ch := make(chan models.NotificationEvent, subscriberBuffer)
	r.subscribers[userID] = append(r.subscribers[userID], ch)
	metrics.NotifySubscribers.Inc()
	logging.Debug().Int64("user_id", userID).Int("channels", len(r.subscribers[userID])).Msg("notification subscriber registered")
	return ch
}

// Unsubscribe removes and closes the channel. Idempotent: unknown
// channels are ignored.
func (r *Registry) Unsubscribe(userID int64, ch chan models.NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels := r.subscribers[userID]
	for i, c := range channels {
		if c != ch {
			continue
		}
		r.subscribers[userID] = append(channels[:i], channels[i+1:]...)
		if len(r.subscribers[userID]) == 0 {
			delete(r.subscribers, userID)
		}
		close(ch)
		metrics.NotifySubscribers.Dec()
		return
	}
}

// Publish pushes the event to every live channel of the recipient.
// Full channels drop the event; the persisted row is the source of truth.
func (r *Registry) Publish(userID int64, event models.NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.subscribers[userID] {
		select {
		case ch <- event:
			metrics.NotifyPublished.Inc()
		default:
			metrics.NotifyDropped.Inc()
			logging.Warn().Int64("user_id", userID).Int64("notification_id", event.ID).Msg("subscriber buffer full, dropping notification event")
		}
	}
}

// SubscriberCount returns the number of live channels for a user.
func (r *Registry) SubscriberCount(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers[userID])
}

// Close closes every subscriber channel. Subsequent Subscribe calls
// return nil and Publish becomes a no-op.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true

	total := 0
	for userID, channels := range r.subscribers {
		for _, ch := range channels {
			close(ch)
			total++
		}
		delete(r.subscribers, userID)
	}
	if total > 0 {
		metrics.NotifySubscribers.Sub(float64(total))
	}
	logging.Info().Int("channels_closed", total).Msg("notification registry closed")
}
