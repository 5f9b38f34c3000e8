// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Account Constraints

const (
	// MaxUsernameLength bounds usernames, including derived ones.
	MaxUsernameLength = 150

	// MaxEmailLength bounds e-mail addresses (RFC 5321 path limit).
	MaxEmailLength = 254

	// MaxNameLength bounds first and last names.
	MaxNameLength = 150

	// ReservedUsername addresses the self profile and can never be taken.
	ReservedUsername = "me"
)

// # Token Constraints

const (
	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32

	// usernameSuffixBytes is the entropy appended to a derived username on collision.
	usernameSuffixBytes = 3

	// usernameAttempts bounds the retries when a derived username is taken.
	usernameAttempts = 5
)
