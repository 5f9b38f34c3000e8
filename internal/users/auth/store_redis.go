// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// ErrSessionNotFound is returned for unknown, revoked or expired refresh tokens.
var ErrSessionNotFound = apperr.NotFound("Session")

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// # Key Layout
//
//	auth:session:<token hash>      JSON session, expires with the token
//	auth:user_sessions:<user id>   set of the user's token hashes
type RedisSessionRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client, now: time.Now}
}

func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

func userSessionsKey(userID string) string {
	return constants.RedisPrefixUserSession + userID
}

/*
Create stores the session with a TTL matching its expiry and indexes it
under the owning user.

Returns:
  - error: Storage failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, session *Session) error {
	ttl := session.ExpiresAt.Sub(repository.now())
	if ttl <= 0 {
		return fmt.Errorf("redis_session_create_failed: session already expired")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.TokenHash), payload, ttl)
		pipe.SAdd(context, userSessionsKey(session.UserID), session.TokenHash)

		// Sessions share one lifetime, so the newest one bounds the index
		pipe.Expire(context, userSessionsKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
FindByTokenHash loads a session by the hash of its refresh token.

Returns:
  - *Session: The live session
  - error: [ErrSessionNotFound] if absent or expired, or connectivity errors
*/
func (repository *RedisSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}
	session.TokenHash = tokenHash

	if session.Expired(repository.now()) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete revokes a single session.
func (repository *RedisSessionRepository) Delete(context context.Context, session *Session) error {
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(session.TokenHash))
		pipe.SRem(context, userSessionsKey(session.UserID), session.TokenHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every session indexed under userID.
func (repository *RedisSessionRepository) DeleteAllForUser(context context.Context, userID string) error {
	hashes, err := repository.client.SMembers(context, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, sessionKey(hash))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_revoke_all_failed: %w", err)
	}
	return nil
}
