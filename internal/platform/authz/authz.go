// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package authz is the single authorization decision point of YaMDb.

Every service asks [Decide] (or [Authorize]) whether an actor may perform an
action on a resource. The rule table covers every resource kind, so there are
no per-endpoint permission checks elsewhere.

# Rules (evaluated in order)

 1. Reads on catalog and content resources are open to everyone.
 2. Writes on Category, Genre and Title require an admin.
 3. Creating a Review or Comment requires any authenticated actor; changing or
    deleting one requires staff or the resource author.
 4. User administration requires an admin. The self profile allows Retrieve and
    PartialUpdate for the owner only.

A denial is either [DenyUnauthenticated] (no actor) or [DenyForbidden] (an actor
lacking rights). Anything the table does not mention is denied.
*/
package authz

import (
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Actions

// Action is an operation requested on a resource.
type Action string

const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDelete        Action = "delete"
)

// IsRead reports whether the action leaves state untouched.
func (a Action) IsRead() bool {
	return a == ActionList || a == ActionRetrieve
}

// # Resources

// Kind identifies a resource type in the rule table.
type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
	KindTitle    Kind = "title"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"
	KindUser     Kind = "user"
	KindProfile  Kind = "profile"
)

// Resource is the target of an authorization check.
// OwnerID is the author (Review, Comment) or account (Profile) id, empty otherwise.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// On describes a resource without ownership.
func On(kind Kind) Resource {
	return Resource{Kind: kind}
}

// Owned describes a resource that belongs to ownerID.
func Owned(kind Kind, ownerID string) Resource {
	return Resource{Kind: kind, OwnerID: ownerID}
}

// # Actors

// Actor is the caller of an operation. The zero value is the anonymous actor.
type Actor struct {
	UserID string
	Role   sec.UserRole
}

// Anonymous returns the actor of an unauthenticated request.
func Anonymous() Actor {
	return Actor{}
}

// Authenticated reports whether the actor carries an identity.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// owns reports whether the actor is the owner of the resource.
func (a Actor) owns(resource Resource) bool {
	return a.Authenticated() && resource.OwnerID != "" && resource.OwnerID == a.UserID
}

// # Decisions

// Decision is the outcome of an authorization check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// String implements [fmt.Stringer].
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	default:
		return "forbidden"
	}
}

// Decide evaluates the rule table for actor performing action on resource.
func Decide(actor Actor, action Action, resource Resource) Decision {
	switch resource.Kind {

	// Rule 1 and 2: catalog
	case KindCategory, KindGenre, KindTitle:
		if action.IsRead() {
			return Allow
		}
		return require(actor, actor.Role.IsAdmin())

	// Rule 1 and 3: user generated content
	case KindReview, KindComment:
		switch action {
		case ActionList, ActionRetrieve:
			return Allow
		case ActionCreate:
			return require(actor, true)
		case ActionUpdate, ActionPartialUpdate, ActionDelete:
			return require(actor, actor.Role.IsStaff() || actor.owns(resource))
		}

	// Rule 4: accounts
	case KindUser:
		return require(actor, actor.Role.IsAdmin())

	case KindProfile:
		selfService := action == ActionRetrieve || action == ActionPartialUpdate
		return require(actor, selfService && actor.owns(resource))
	}

	return require(actor, false)
}

// require turns a capability check into a decision, anonymous actors first.
func require(actor Actor, granted bool) Decision {
	if !actor.Authenticated() {
		return DenyUnauthenticated
	}
	if !granted {
		return DenyForbidden
	}
	return Allow
}

// Authorize is [Decide] expressed as an error: nil, Unauthorized or Forbidden.
func Authorize(actor Actor, action Action, resource Resource) error {
	switch Decide(actor, action, resource) {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return apperr.Unauthorized("Authentication required")
	default:
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}

// RequireIdentity fails with Unauthorized for the anonymous actor. Services call
// it before loading a resource whose ownership decides the final check.
func RequireIdentity(actor Actor) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}
