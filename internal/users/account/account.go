// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and the self profile.

Administrators manage every account by username, roles included. Any
authenticated user may read and edit their own profile through "me", but can
never change their own role there.

# Architecture

  - Entities: The [auth.User] entity is shared with the sign-in flow.
  - Integrity: Deleting an account removes its reviews and comments and
    recomputes the ratings of the affected titles in the same transaction.
  - Sessions: Refresh sessions of a deleted account are revoked.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Filter narrows the administrative user list.
type Filter struct {
	Search string `schema:"search"`
}

// # Repository Contracts

// Repository defines the persistence contract for account administration.
type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*auth.User, int, error)

	FindByID(context context.Context, id string) (*auth.User, error)

	FindByUsername(context context.Context, username string) (*auth.User, error)

	// Create returns [auth.ErrEmailTaken] or [auth.ErrUsernameTaken] on conflicts.
	Create(context context.Context, user *auth.User) error

	// Update rewrites username, email, role, names and bio.
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes the account with its reviews and comments.

		Description: Ratings of every title the account reviewed are
		recomputed within the same transaction.
	*/
	Delete(context context.Context, id string) error
}

// SessionRevoker ends every refresh session of an account.
type SessionRevoker interface {
	RevokeSessions(context context.Context, userID string) error
}
