// Cinegraph - Movie Social Network Backend
// Copyright 2026 F. Kenzio (fkenzio)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fkenzio/movie-social-backend

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fkenzio/movie-social-backend/internal/auth"
	"github.com/fkenzio/movie-social-backend/internal/config"
)

func testJWT(t *testing.T) *auth.JWTManager {
	t.Helper()
	m, err := auth.NewJWTManager(&config.SecurityConfig{
		JWTSecret:   strings.Repeat("s", 32),
		TokenExpiry: time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("request id missing from context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("header id %q != context id %q", got, seen)
	}
}

func TestRequestIDHonorsUpstream(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "proxy-id-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "proxy-id-7" {
		t.Errorf("X-Request-ID = %q, want proxy-id-7", got)
	}
}

func TestAuthenticateBearerHeader(t *testing.T) {
	jwt := testJWT(t)
	token, err := jwt.GenerateToken(42, "kenzio")
	if err != nil {
		t.Fatal(err)
	}

	var gotID int64
	var gotName string
	handler := Authenticate(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
		gotName = Username(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != 42 || gotName != "kenzio" {
		t.Errorf("identity = %d/%q, want 42/kenzio", gotID, gotName)
	}
}

func TestAuthenticateQueryParam(t *testing.T) {
	jwt := testJWT(t)
	token, err := jwt.GenerateToken(7, "streamer")
	if err != nil {
		t.Fatal(err)
	}

	var gotID int64
	handler := Authenticate(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/stream?token="+token, nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != 7 {
		t.Errorf("UserID = %d, want 7", gotID)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	handler := Authenticate(testJWT(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAuthenticateAnonymousPassthrough(t *testing.T) {
	var gotID int64 = -1
	handler := Authenticate(testJWT(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = UserID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if gotID != 0 {
		t.Errorf("anonymous UserID = %d, want 0", gotID)
	}
}

func TestRequireAuth(t *testing.T) {
	reached := false
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if reached {
		t.Error("anonymous request reached protected handler")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPrometheusMetricsCapturesStatus(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
}
