// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package database

import (
	"errors"
	"io"

	"github.com/fkenzio/movie-social-backend/internal/logging"
)

// Sentinel errors returned by store methods. Handlers map these onto
// HTTP error codes.
var (
	// ErrNotFound is returned when the requested row does not exist or
	// is not visible to the caller. Owner-scoped deletes and updates
	// return it for other users' rows as well, so the surface does not
	// reveal existence.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness rule is violated, such
	// as a second review for the same movie.
	ErrDuplicate = errors.New("duplicate")

	// ErrForbidden is returned when the row exists but the caller may
	// not access it, such as a private list.
	ErrForbidden = errors.New("forbidden")
)

// closeQuietly closes a resource and explicitly ignores any error.
// For cleanup in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs a warning on failure.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("failed to close resource")
	}
}
