// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

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
)

func TestReadiness(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all dependencies up", func(t *testing.T) {
		_, ready := NewHealthHandlers(HealthDependencies{"postgres": healthy, "redis": healthy}, logger)

		recorder := httptest.NewRecorder()
		ready(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("one dependency down", func(t *testing.T) {
		_, ready := NewHealthHandlers(HealthDependencies{"postgres": healthy, "redis": broken}, logger)

		recorder := httptest.NewRecorder()
		ready(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

		var body struct {
			Data struct {
				Status string        `json:"status"`
				Checks []checkResult `json:"checks"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
		assert.Equal(t, "degraded", body.Data.Status)
		require.Len(t, body.Data.Checks, 2)
		assert.Equal(t, "postgres", body.Data.Checks[0].Name)
		assert.False(t, body.Data.Checks[1].IsOK)
	})
}

func TestLiveness(t *testing.T) {
	live, _ := NewHealthHandlers(nil, slog.Default())
	recorder := httptest.NewRecorder()
	live(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
