// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

var (
	anonymous = authz.Anonymous()
	author    = authz.Actor{UserID: "author", Role: sec.RoleUser}
	stranger  = authz.Actor{UserID: "stranger", Role: sec.RoleUser}
	moderator = authz.Actor{UserID: "moderator", Role: sec.RoleModerator}
	admin     = authz.Actor{UserID: "admin", Role: sec.RoleAdmin}

	reads  = []authz.Action{authz.ActionList, authz.ActionRetrieve}
	writes = []authz.Action{authz.ActionCreate, authz.ActionUpdate, authz.ActionPartialUpdate, authz.ActionDelete}
	edits  = []authz.Action{authz.ActionUpdate, authz.ActionPartialUpdate, authz.ActionDelete}
)

/*
TestDecide_PublicReads verifies that anyone can read catalog and content resources.
*/
func TestDecide_PublicReads(t *testing.T) {
	kinds := []authz.Kind{authz.KindCategory, authz.KindGenre, authz.KindTitle, authz.KindReview, authz.KindComment}

	for _, kind := range kinds {
		for _, action := range reads {
			for _, actor := range []authz.Actor{anonymous, stranger, moderator, admin} {
				assert.Equal(t, authz.Allow, authz.Decide(actor, action, authz.Owned(kind, "author")),
					"%s %s by %q", action, kind, actor.UserID)
			}
		}
	}
}

/*
TestDecide_CatalogWrites verifies that only admins write categories, genres and titles.
*/
func TestDecide_CatalogWrites(t *testing.T) {
	for _, kind := range []authz.Kind{authz.KindCategory, authz.KindGenre, authz.KindTitle} {
		for _, action := range writes {
			resource := authz.On(kind)

			assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, action, resource))
			assert.Equal(t, authz.DenyForbidden, authz.Decide(stranger, action, resource))
			assert.Equal(t, authz.DenyForbidden, authz.Decide(moderator, action, resource))
			assert.Equal(t, authz.Allow, authz.Decide(admin, action, resource))
		}
	}
}

/*
TestDecide_ContentWrites verifies the author-or-staff rule for reviews and comments.
*/
func TestDecide_ContentWrites(t *testing.T) {
	for _, kind := range []authz.Kind{authz.KindReview, authz.KindComment} {

		// Create only needs an identity
		create := authz.On(kind)
		assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, authz.ActionCreate, create))
		for _, actor := range []authz.Actor{stranger, moderator, admin} {
			assert.Equal(t, authz.Allow, authz.Decide(actor, authz.ActionCreate, create))
		}

		for _, action := range edits {
			owned := authz.Owned(kind, author.UserID)

			assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, action, owned))
			assert.Equal(t, authz.DenyForbidden, authz.Decide(stranger, action, owned))
			assert.Equal(t, authz.Allow, authz.Decide(author, action, owned))
			assert.Equal(t, authz.Allow, authz.Decide(moderator, action, owned))
			assert.Equal(t, authz.Allow, authz.Decide(admin, action, owned))
		}
	}
}

/*
TestDecide_Users verifies admin-only account administration and the self profile.
*/
func TestDecide_Users(t *testing.T) {
	for _, action := range append(reads, writes...) {
		assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, action, authz.On(authz.KindUser)))
		assert.Equal(t, authz.DenyForbidden, authz.Decide(stranger, action, authz.On(authz.KindUser)))
		assert.Equal(t, authz.DenyForbidden, authz.Decide(moderator, action, authz.On(authz.KindUser)))
		assert.Equal(t, authz.Allow, authz.Decide(admin, action, authz.On(authz.KindUser)))
	}

	own := authz.Owned(authz.KindProfile, author.UserID)
	assert.Equal(t, authz.Allow, authz.Decide(author, authz.ActionRetrieve, own))
	assert.Equal(t, authz.Allow, authz.Decide(author, authz.ActionPartialUpdate, own))
	assert.Equal(t, authz.DenyForbidden, authz.Decide(author, authz.ActionDelete, own))
	assert.Equal(t, authz.DenyForbidden, authz.Decide(author, authz.ActionUpdate, own))
	assert.Equal(t, authz.DenyForbidden, authz.Decide(stranger, authz.ActionRetrieve, own))
	assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, authz.ActionRetrieve, own))
}

/*
TestDecide_UnknownKind denies anything the table does not describe.
*/
func TestDecide_UnknownKind(t *testing.T) {
	unknown := authz.On(authz.Kind("session"))

	assert.Equal(t, authz.DenyUnauthenticated, authz.Decide(anonymous, authz.ActionList, unknown))
	assert.Equal(t, authz.DenyForbidden, authz.Decide(admin, authz.ActionList, unknown))
}

/*
TestAuthorize_ErrorMapping checks that denials become distinguishable AppErrors.
*/
func TestAuthorize_ErrorMapping(t *testing.T) {
	assert.NoError(t, authz.Authorize(admin, authz.ActionDelete, authz.On(authz.KindTitle)))

	err := authz.Authorize(anonymous, authz.ActionCreate, authz.On(authz.KindReview))
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	err = authz.Authorize(stranger, authz.ActionDelete, authz.Owned(authz.KindComment, "author"))
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}
