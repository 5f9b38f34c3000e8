// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless sign-in with e-mailed confirmation codes.

# Lifecycle (per e-mail address)

	NoAccount --request-code--> CodeIssued --token--> Authenticated
	                              ^    |                    |
	                              +----+ reissue-code <-----+

The account row is created on the first code request. A successful exchange
marks it verified and issues an RS256 access token plus a refresh token
kept in Redis.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User is a registered member of YaMDb.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bio       string       `json:"bio"`

	// CodeHash is the bcrypt hash of the current confirmation code.
	// An empty hash matches no code.
	CodeHash   string    `json:"-"`
	IsVerified bool      `json:"-"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// Session is a refresh-token session. Only the token hash is stored.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TokenPair is the credential bundle returned by a successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldRefreshToken     = "refresh_token"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
)
