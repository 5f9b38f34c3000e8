// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Sentinel conflicts reported by [UserRepository.Create].
var (
	ErrEmailTaken    = apperr.Conflict("Email is already registered")
	ErrUsernameTaken = apperr.Conflict("Username is already taken")
)

// # User Data Access

// UserRepository defines the data access contract for accounts used by sign-in.
type UserRepository interface {

	// FindByID returns the account with the given ID, or NOT_FOUND.
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail returns the account bound to email, or NOT_FOUND.
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: [ErrEmailTaken] or [ErrUsernameTaken] on a uniqueness
		    violation, otherwise storage failures
	*/
	Create(context context.Context, user *User) error

	// SetCodeHash replaces the stored confirmation code hash.
	SetCodeHash(context context.Context, userID, codeHash string) error

	// MarkVerified flags the account as having completed a code exchange.
	MarkVerified(context context.Context, userID string) error
}

// # Session Data Access

// SessionRepository stores refresh sessions keyed by token hash.
type SessionRepository interface {
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns NOT_FOUND for unknown or expired sessions.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	Delete(context context.Context, session *Session) error

	// DeleteAllForUser revokes every session of the account.
	DeleteAllForUser(context context.Context, userID string) error
}

// # Collaborators

// Mailer delivers a rendered template to a recipient.
type Mailer interface {
	Send(context context.Context, recipient, templateName string, data any) error
}

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, role sec.UserRole, timeToLive time.Duration) (string, error)
}
