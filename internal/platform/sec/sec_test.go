// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

/*
TestUserRole_Predicates checks the capability predicates for every role.
*/
func TestUserRole_Predicates(t *testing.T) {
	tests := []struct {
		role        sec.UserRole
		isAdmin     bool
		isModerator bool
		isStaff     bool
	}{
		{sec.RoleAdmin, true, false, true},
		{sec.RoleModerator, false, true, true},
		{sec.RoleUser, false, false, false},
		{sec.UserRole(""), false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.isAdmin, tt.role.IsAdmin())
			assert.Equal(t, tt.isModerator, tt.role.IsModerator())
			assert.Equal(t, tt.isStaff, tt.role.IsStaff())
		})
	}
}

/*
TestParseRole accepts the closed set and rejects everything else.
*/
func TestParseRole(t *testing.T) {
	for _, role := range sec.Roles {
		parsed, err := sec.ParseRole(string(role))
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	for _, raw := range []string{"", "superuser", "ADMIN", "member"} {
		_, err := sec.ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, &key.PublicKey, "yamdb.test")
}

/*
TestTokenService_RoundTrip signs and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t)

	token, err := service.GenerateAccessToken("user-1", "alice", sec.RoleModerator, time.Hour)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, sec.RoleModerator, claims.Role)
}

/*
TestTokenService_Rejects covers expired tokens and tokens signed by another key.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t)
	other := newTokenService(t)

	expired, err := service.GenerateAccessToken("user-1", "alice", sec.RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	foreign, err := other.GenerateAccessToken("user-1", "alice", sec.RoleUser, time.Hour)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-jwt")
	assert.Error(t, err)
}

/*
TestConfirmationCode verifies entropy, hashing and comparison of codes.
*/
func TestConfirmationCode(t *testing.T) {
	code, err := sec.GenerateConfirmationCode()
	require.NoError(t, err)
	assert.Len(t, code, sec.ConfirmationCodeBytes*2)

	again, err := sec.GenerateConfirmationCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, again)

	hash, err := sec.HashCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.True(t, sec.CheckCodeHash(code, hash))
	assert.False(t, sec.CheckCodeHash(again, hash))
	assert.False(t, sec.CheckCodeHash(code, ""))
	assert.False(t, sec.CheckCodeHash("", hash))
}

/*
TestHashToken is deterministic and hides the input.
*/
func TestHashToken(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}
