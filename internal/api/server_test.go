// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/config"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/social/comment"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token == "valid" || token == "orphan" {
		return &sec.AuthClaims{UserID: token, Role: sec.RoleAdmin}, nil
	}
	return nil, errors.New("bad token")
}

// stubRoles demotes every known account to a regular user.
type stubRoles struct{}

func (stubRoles) RoleOf(_ context.Context, userID string) (sec.UserRole, error) {
	if userID == "orphan" {
		return "", auth.ErrUserNotFound
	}
	return sec.RoleUser, nil
}

// newTestServer wires real handlers over absent stores. Every request below
// is answered before a store would be touched.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{ServerPort: "0", Environment: "development", RateLimitRPS: 100, RateLimitBurst: 100}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := NewHealthHandlers(HealthDependencies{}, logger)
	handlers := Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(auth.NewService(nil, nil, nil, nil, auth.Options{}, logger)),
		Users:      account.NewHandler(account.NewService(nil, nil, logger)),
		Categories: reference.NewHandler(reference.NewService(nil, authz.KindCategory, logger)),
		Genres:     reference.NewHandler(reference.NewService(nil, authz.KindGenre, logger)),
		Titles:     title.NewHandler(title.NewService(nil, logger)),
		Reviews:    review.NewHandler(review.NewService(nil, logger)),
		Comments:   comment.NewHandler(comment.NewService(nil, logger)),
	}

	return NewServer(ctx, cfg, logger, Security{Verifier: stubVerifier{}, Roles: stubRoles{}}, handlers).Handler()
}

func TestServer_Routes(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		status int
		reply  string
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK, `"status":"ok"`},
		{"title mount", http.MethodGet, "/api/v1/titles/abc", "", "", http.StatusNotFound, "Title not found"},
		{"review mount", http.MethodGet, "/api/v1/titles/1/reviews/abc", "", "", http.StatusNotFound, "Review not found"},
		{"comment mount", http.MethodGet, "/api/v1/titles/1/reviews/2/comments/abc", "", "", http.StatusNotFound, "Comment not found"},
		{"anonymous category write", http.MethodPost, "/api/v1/categories", `{"name":"Film"}`, "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"anonymous genre write", http.MethodDelete, "/api/v1/genres/drama", "", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"stored role wins over token role", http.MethodPost, "/api/v1/titles", `{"name":"X","year":2000}`, "valid", http.StatusForbidden, "FORBIDDEN"},
		{"deleted account", http.MethodGet, "/api/v1/users/me", "", "orphan", http.StatusUnauthorized, "no longer exists"},
		{"bad token", http.MethodGet, "/api/v1/titles/abc", "", "forged", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"anonymous profile", http.MethodGet, "/api/v1/users/me", "", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"sign-in payload", http.MethodPost, "/api/v1/auth/request-code", `{}`, "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown route", http.MethodGet, "/api/v1/comics", "", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				request.Header.Set("Authorization", "Bearer "+tt.token)
			}
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			assert.Contains(t, recorder.Body.String(), tt.reply)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}
}
