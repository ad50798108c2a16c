// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/config"
	"github.com/fkenzio/movie-social-backend/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	cfg     *config.Config
	jwt     *auth.JWTManager
}

// NewRouter creates the router.
func NewRouter(handler *Handler, cfg *config.Config, jwt *auth.JWTManager) *Router {
	return &Router{handler: handler, cfg: cfg, jwt: jwt}
}

// Setup builds the full route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/api/v1/health", rt.handler.Health)

	// Strict limit on credential endpoints.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rt.rateLimit(10, time.Minute))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", rt.handler.Register)
		r.Post("/login", rt.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.jwt), middleware.RequireAuth)
			r.Get("/me", rt.handler.Me)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.rateLimit(rt.cfg.Security.RateLimitReqs, rt.cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Authenticate(rt.jwt))

		// Public surface: movie metadata, feed, public stats. The viewer
		// id personalizes flags when a token is present.
		r.Get("/movies/search", rt.handler.SearchMovies)
		r.Get("/movies/trending", rt.handler.TrendingMovies)
		r.Get("/movies/top-rated", rt.handler.TopRatedMovies)
		r.Get("/movies/popular", rt.handler.PopularMovies)
		r.Get("/movies/now-playing", rt.handler.NowPlayingMovies)
		r.Get("/movies/{movieID}", rt.handler.Movie)
		r.Get("/movies/{movieID}/ratings", rt.handler.MovieRatings)
		r.Get("/movies/{movieID}/ratings/stats", rt.handler.MovieRatingStats)
		r.Get("/movies/{movieID}/reviews", rt.handler.MovieReviews)
		r.Get("/movies/{movieID}/reviews/stats", rt.handler.MovieReviewStats)

		r.Get("/rankings/users/top-rated", rt.handler.UsersTopRatedRanking)
		r.Get("/rankings/tmdb/top-rated", rt.handler.TMDBTopRatedRanking)

		r.Get("/feed", rt.handler.Feed)
		r.Get("/users/{userID}/feed", rt.handler.UserFeed)
		r.Get("/users/{userID}/stats", rt.handler.UserStats)
		r.Get("/users/{userID}/reviews", rt.handler.UserReviews)

		r.Get("/reviews/{reviewID}", rt.handler.Review)
		r.Get("/comments", rt.handler.Comments)
		r.Get("/comments/{commentID}/replies", rt.handler.CommentReplies)
		r.Get("/interactions/stats", rt.handler.InteractionStats)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/ratings", rt.handler.RateMovie)
			r.Get("/ratings/movie/{movieID}", rt.handler.MyRating)
			r.Delete("/ratings/movie/{movieID}", rt.handler.DeleteRating)

			r.Post("/reviews", rt.handler.CreateReview)
			r.Get("/reviews/movie/{movieID}/mine", rt.handler.MyMovieReview)
			r.Put("/reviews/{reviewID}", rt.handler.UpdateReview)
			r.Delete("/reviews/{reviewID}", rt.handler.DeleteReview)

			r.Post("/lists", rt.handler.CreateList)
			r.Get("/lists", rt.handler.MyLists)
			r.Get("/lists/{listID}", rt.handler.List)
			r.Put("/lists/{listID}", rt.handler.UpdateList)
			r.Delete("/lists/{listID}", rt.handler.DeleteList)
			r.Post("/lists/{listID}/movies", rt.handler.AddListMovie)
			r.Get("/lists/{listID}/movies", rt.handler.ListMovies)
			r.Delete("/lists/{listID}/movies/{movieID}", rt.handler.RemoveListMovie)
			r.Get("/lists/contains/{movieID}", rt.handler.ListsContainingMovie)

			r.Post("/likes", rt.handler.ToggleLike)
			r.Post("/comments", rt.handler.CreateComment)
			r.Put("/comments/{commentID}", rt.handler.UpdateComment)
			r.Delete("/comments/{commentID}", rt.handler.DeleteComment)

			r.Get("/recommendations", rt.handler.Recommendations)
			r.Get("/recommendations/trending", rt.handler.TrendingRecommendations)
			r.Get("/recommendations/top-rated", rt.handler.TopRatedRecommendations)
			r.Get("/recommendations/similar/{movieID}", rt.handler.SimilarMovieRecommendations)
			r.Get("/recommendations/similar-users", rt.handler.SimilarUsers)

			r.Get("/notifications", rt.handler.Notifications)
			r.Get("/notifications/stats", rt.handler.NotificationStats)
			r.Post("/notifications/{notificationID}/read", rt.handler.MarkNotificationRead)
			r.Post("/notifications/read-all", rt.handler.MarkAllNotificationsRead)
			r.Delete("/notifications/{notificationID}", rt.handler.DeleteNotification)
			r.Get("/notifications/stream", rt.handler.NotificationStream)
			r.Get("/notifications/ws", rt.handler.NotificationSocket)
		})
	})

	return r
}

// rateLimit builds a per-IP limiter, disabled in tests via config.
func (rt *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if rt.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(requests, window)
}
