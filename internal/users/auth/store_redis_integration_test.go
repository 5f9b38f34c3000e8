//go:build integration

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	platformredis "github.com/taibuivan/yamdb/internal/platform/redis"
)

func startRedis(t *testing.T) *RedisSessionRepository {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "redis")
	require.NoError(t, err)

	client, err := platformredis.NewClient(ctx, endpoint, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRepository(client)
}

func TestRedisSessionRepository(t *testing.T) {
	repository := startRedis(t)
	ctx := context.Background()
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	first := &Session{TokenHash: "hash-1", UserID: "user-1", ExpiresAt: expires}
	second := &Session{TokenHash: "hash-2", UserID: "user-1", ExpiresAt: expires}
	other := &Session{TokenHash: "hash-3", UserID: "user-2", ExpiresAt: expires}
	for _, session := range []*Session{first, second, other} {
		require.NoError(t, repository.Create(ctx, session))
	}

	t.Run("find returns the stored session", func(t *testing.T) {
		found, err := repository.FindByTokenHash(ctx, "hash-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", found.UserID)
		assert.Equal(t, "hash-1", found.TokenHash)
		assert.True(t, expires.Equal(found.ExpiresAt))
	})

	t.Run("unknown hash is not found", func(t *testing.T) {
		_, err := repository.FindByTokenHash(ctx, "missing")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})

	t.Run("delete removes one session", func(t *testing.T) {
		require.NoError(t, repository.Delete(ctx, first))

		_, err := repository.FindByTokenHash(ctx, "hash-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = repository.FindByTokenHash(ctx, "hash-2")
		assert.NoError(t, err)
	})

	t.Run("delete all keeps other users", func(t *testing.T) {
		require.NoError(t, repository.DeleteAllForUser(ctx, "user-1"))

		_, err := repository.FindByTokenHash(ctx, "hash-2")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		_, err = repository.FindByTokenHash(ctx, "hash-3")
		assert.NoError(t, err)
	})

	t.Run("expired session is rejected on create", func(t *testing.T) {
		err := repository.Create(ctx, &Session{TokenHash: "old", UserID: "user-3", ExpiresAt: time.Now().Add(-time.Minute)})
		assert.Error(t, err)
	})
}
