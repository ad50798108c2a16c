// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fkenzio/movie-social-backend/internal/database"
	"github.com/fkenzio/movie-social-backend/internal/logging"
	"github.com/fkenzio/movie-social-backend/internal/models"
)

// Credential errors surfaced to the API layer.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username or email already registered")
)

// Store is the slice of the database the auth service uses.
type Store interface {
	CreateUser(ctx context.Context, username, email, fullName, passwordHash string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Service handles registration and login.
type Service struct {
	store Store
	jwt   *JWTManager
}

// NewService creates the auth service.
func NewService(store Store, jwt *JWTManager) *Service {
	return &Service{store: store, jwt: jwt}
}

// Register creates an account and returns the user with a fresh session
// token.
func (s *Service) Register(ctx context.Context, username, email, fullName, password string) (*models.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.store.CreateUser(ctx, username, email, fullName, hash)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh session
// token. Unknown username and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}

	logging.Ctx(ctx).Info().Int64("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

// UserFromToken resolves a session token to its account.
func (s *Service) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, userID)
}

// JWT exposes the token manager for middleware.
func (s *Service) JWT() *JWTManager {
	return s.jwt
}
