// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (s stubVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.claims
	return &copied, nil
}

type stubRoles struct {
	role sec.UserRole
	err  error
}

func (s stubRoles) RoleOf(context.Context, string) (sec.UserRole, error) {
	return s.role, s.err
}

type stubConfig struct {
	dev     bool
	origins []string
}

func (c stubConfig) IsDevelopment() bool      { return c.dev }
func (c stubConfig) AllowedOrigins() []string { return c.origins }

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u-1", Username: "alice", Role: sec.RoleUser}

	var seen *sec.AuthClaims
	final := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusNoContent)
	})

	t.Run("anonymous passes through", func(t *testing.T) {
		seen = nil
		handler := Authenticate(stubVerifier{claims: claims}, stubRoles{role: sec.RoleUser})(final)

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("stored role replaces token role", func(t *testing.T) {
		seen = nil
		handler := Authenticate(stubVerifier{claims: claims}, stubRoles{role: sec.RoleModerator})(final)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Bearer abc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		require.NotNil(t, seen)
		assert.Equal(t, "u-1", seen.UserID)
		assert.Equal(t, sec.RoleModerator, seen.Role)
	})

	t.Run("malformed header", func(t *testing.T) {
		handler := Authenticate(stubVerifier{claims: claims}, stubRoles{})(final)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Token abc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		handler := Authenticate(stubVerifier{err: errors.New("expired")}, stubRoles{})(final)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Bearer abc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, apperr.CodeUnauthorized, decodeError(t, recorder).Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		handler := Authenticate(stubVerifier{claims: claims}, stubRoles{err: apperr.NotFound("User")})(final)

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set(constants.HeaderAuthorization, "Bearer abc")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "given")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "given", seen)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.2:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, decodeError(t, recorder).Code)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		cfg     stubConfig
		origin  string
		allowed bool
	}{
		{"development allows any origin", stubConfig{dev: true}, "http://localhost:3000", true},
		{"listed origin", stubConfig{origins: []string{"https://yamdb.app"}}, "https://yamdb.app", true},
		{"unlisted origin", stubConfig{origins: []string{"https://yamdb.app"}}, "https://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			CORS(tt.cfg)(next).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set(constants.HeaderOrigin, "http://localhost:3000")
	recorder := httptest.NewRecorder()
	CORS(stubConfig{dev: true})(next).ServeHTTP(recorder, preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.7")
	assert.Equal(t, "198.51.100.7", RealIP(request))
}
