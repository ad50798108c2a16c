// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/database"
	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/models"
	"github.com/fkenzio/movie-social-backend/internal/tmdb"
)

const (
	// dedupWindow collapses repeated identical actions (like toggled
	// twice, comment edited) into one notification.
	dedupWindow = 5 * time.Minute

	commentPreviewLen = 100
)

// Store is the slice of the database the service uses.
type Store interface {
	InsertNotification(ctx context.Context, n *models.Notification) (*models.Notification, error)
	FindRecentDuplicate(ctx context.Context, n *models.Notification, window time.Duration) (*models.Notification, error)
	TargetOwner(ctx context.Context, targetType models.TargetType, targetID int64) (int64, error)
	TargetMovie(ctx context.Context, targetType models.TargetType, targetID int64) (int64, bool, error)
	UserRefs(ctx context.Context, ids []int64) (map[int64]models.UserRef, error)
}

// Metadata resolves movie titles for notification payloads.
type Metadata interface {
	GetMovie(ctx context.Context, movieID int64) (*tmdb.Movie, error)
}

// Service persists notifications and fans them out to live subscribers.
type Service struct {
	store    Store
	metadata Metadata
	registry *Registry
}

// NewService creates the notification service.
func NewService(store Store, metadata Metadata, registry *Registry) *Service {
	return &Service{store: store, metadata: metadata, registry: registry}
}

// Registry exposes the subscriber registry for stream handlers.
func (s *Service) Registry() *Registry {
	return s.registry
}

// NotifyLike notifies the owner of the liked target. Liking your own
// content produces nothing.
func (s *Service) NotifyLike(ctx context.Context, actorID int64, targetType models.TargetType, targetID int64) error {
	ownerID, err := s.store.TargetOwner(ctx, targetType, targetID)
	if err != nil {
		return fmt.Errorf("failed to resolve like target owner: %w", err)
	}
	return s.create(ctx, ownerID, actorID, models.NotificationLike, targetType, targetID, "")
}

// NotifyComment notifies the right party about a new comment: the target
// owner for a top-level comment, the parent comment's author for a reply.
func (s *Service) NotifyComment(ctx context.Context, comment *models.Comment) error {
	preview := previewOf(comment.Content)

	if comment.ParentID != nil {
		parentOwner, err := s.store.TargetOwner(ctx, models.TargetComment, *comment.ParentID)
		if err != nil {
			return fmt.Errorf("failed to resolve parent comment owner: %w", err)
		}
		return s.create(ctx, parentOwner, comment.UserID, models.NotificationReply, models.TargetComment, *comment.ParentID, preview)
	}

	ownerID, err := s.store.TargetOwner(ctx, comment.TargetType, comment.TargetID)
	if err != nil {
		return fmt.Errorf("failed to resolve comment target owner: %w", err)
	}
	return s.create(ctx, ownerID, comment.UserID, models.NotificationComment, comment.TargetType, comment.TargetID, preview)
}

// create persists the notification and publishes it to the recipient's
// live subscribers. Self-actions are suppressed; a duplicate within the
// dedup window reuses the existing row and is not re-published.
func (s *Service) create(ctx context.Context, recipientID, actorID int64, notifType models.NotificationType, targetType models.TargetType, targetID int64, preview string) error {
	if recipientID == actorID {
		return nil
	}

	n := &models.Notification{
		UserID:         recipientID,
		ActorID:        actorID,
		Type:           notifType,
		TargetType:     targetType,
		TargetID:       targetID,
		ContentPreview: preview,
	}

	existing, err := s.store.FindRecentDuplicate(ctx, n, dedupWindow)
	if err == nil {
		logging.Ctx(ctx).Debug().Int64("notification_id", existing.ID).Msg("duplicate notification suppressed")
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("failed to check duplicate notification: %w", err)
	}

	s.enrichMovie(ctx, n)

	created, err := s.store.InsertNotification(ctx, n)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	event, err := s.eventFor(ctx, created)
	if err != nil {
		// The row is durable; a failed fan-out is not an API error.
		logging.Ctx(ctx).Warn().Err(err).Int64("notification_id", created.ID).Msg("failed to build notification event")
		return nil
	}
	s.registry.Publish(recipientID, *event)
	return nil
}

// enrichMovie attaches the movie id and title when the target is bound
// to a movie. Enrichment is best effort.
func (s *Service) enrichMovie(ctx context.Context, n *models.Notification) {
	movieID, ok, err := s.store.TargetMovie(ctx, n.TargetType, n.TargetID)
	if err != nil || !ok {
		return
	}
	n.MovieID = &movieID

	movie, err := s.metadata.GetMovie(ctx, movieID)
	if err != nil {
		logging.Ctx(ctx).Debug().Int64("movie_id", movieID).Err(err).Msg("notification movie title unavailable")
		return
	}
	n.MovieTitle = movie.Title
}

func (s *Service) eventFor(ctx context.Context, n *models.Notification) (*models.NotificationEvent, error) {
	events, err := s.Events(ctx, []models.Notification{*n})
	if err != nil {
		return nil, err
	}
	return &events[0], nil
}

// Events decorates persisted notifications with actor details for the
// wire, resolving all actors in one batch.
func (s *Service) Events(ctx context.Context, notifications []models.Notification) ([]models.NotificationEvent, error) {
	ids := make([]int64, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ActorID)
	}
	actors, err := s.store.UserRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve notification actors: %w", err)
	}

	events := make([]models.NotificationEvent, len(notifications))
	for i, n := range notifications {
		events[i] = models.NotificationEvent{
			ID:             n.ID,
			Type:           n.Type,
			Actor:          actors[n.ActorID],
			TargetType:     n.TargetType,
			TargetID:       n.TargetID,
			MovieID:        n.MovieID,
			MovieTitle:     n.MovieTitle,
			ContentPreview: n.ContentPreview,
			IsRead:         n.IsRead,
			CreatedAt:      n.CreatedAt,
		}
	}
	return events, nil
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= commentPreviewLen {
		return content
	}
	return string(runes[:commentPreviewLen]) + "..."
}
