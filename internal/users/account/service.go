// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// Service implements account administration and the self profile.
type Service struct {
	repository Repository
	sessions   SessionRevoker
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repository Repository, sessions SessionRevoker, logger *slog.Logger) *Service {
	return &Service{repository: repository, sessions: sessions, logger: logger}
}

// Input carries client-writable profile fields. Nil means "not provided".
type Input struct {
	Username  *string
	Email     *string
	Role      *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// # Administration

func (service *Service) List(context context.Context, actor authz.Actor, filter Filter, params pagination.Params) ([]*auth.User, int, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.On(authz.KindUser)); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, filter, params)
}

func (service *Service) Get(context context.Context, actor authz.Actor, username string) (*auth.User, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.On(authz.KindUser)); err != nil {
		return nil, err
	}
	return service.repository.FindByUsername(context, username)
}

/*
Create registers an account on behalf of an administrator.

Description: The account starts unverified with an empty code. Its owner
signs in through the confirmation-code flow like any other user.

Returns:
  - error: UNAUTHORIZED, FORBIDDEN, VALIDATION_ERROR or CONFLICT
*/
func (service *Service) Create(context context.Context, actor authz.Actor, input Input) (*auth.User, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.On(authz.KindUser)); err != nil {
		return nil, err
	}

	user := &auth.User{ID: uuid.New()}
	if err := apply(user, input, false); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_created",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Update replaces (partial false) or patches (partial true) the account
// stored under username.
func (service *Service) Update(context context.Context, actor authz.Actor, username string, input Input, partial bool) (*auth.User, error) {
	action := authz.ActionUpdate
	if partial {
		action = authz.ActionPartialUpdate
	}
	if err := authz.Authorize(actor, action, authz.On(authz.KindUser)); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	previousRole := user.Role
	if err := apply(user, input, partial); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_updated", slog.String("user_id", user.ID))
	if previousRole != user.Role {
		service.logger.InfoContext(context, "user_role_changed",
			slog.String("user_id", user.ID),
			slog.String("from", previousRole.String()),
			slog.String("to", user.Role.String()),
		)
	}
	return user, nil
}

/*
Delete removes an account, its reviews and comments, then revokes its
refresh sessions.

Description: A failed revocation is logged but not returned: the account is
gone and its remaining sessions can no longer resolve a user.
*/
func (service *Service) Delete(context context.Context, actor authz.Actor, username string) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.On(authz.KindUser)); err != nil {
		return err
	}

	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, user.ID); err != nil {
		return err
	}

	if err := service.sessions.RevokeSessions(context, user.ID); err != nil {
		service.logger.WarnContext(context, "user_session_revocation_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("user_id", user.ID))
	return nil
}

// # Self Profile

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, actor authz.Actor) (*auth.User, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.Owned(authz.KindProfile, actor.UserID)); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, actor.UserID)
}

// UpdateMe patches the caller's own account. A role in the input is ignored.
func (service *Service) UpdateMe(context context.Context, actor authz.Actor, input Input) (*auth.User, error) {
	if err := authz.Authorize(actor, authz.ActionPartialUpdate, authz.Owned(authz.KindProfile, actor.UserID)); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(context, actor.UserID)
	if err != nil {
		return nil, err
	}

	input.Role = nil
	if err := apply(user, input, true); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("user_id", user.ID))
	return user, nil
}

// # Operator Use Cases

// RoleOf returns the stored role of an account, for request authentication.
func (service *Service) RoleOf(context context.Context, userID string) (sec.UserRole, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

// Promote sets the role of an account without an acting user. It serves the
// operator CLI, which bootstraps the first administrator.
func (service *Service) Promote(context context.Context, username string, role sec.UserRole) (*auth.User, error) {
	if !role.Valid() {
		return nil, validate.RequiredError(auth.FieldRole, fmt.Sprintf("Unknown role %q", role))
	}

	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	previousRole := user.Role
	user.Role = role
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("promote_user_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_role_changed",
		slog.String("user_id", user.ID),
		slog.String("from", previousRole.String()),
		slog.String("to", role.String()),
	)
	return user, nil
}

// # Helpers

// apply merges input into user and validates the result. Outside partial
// updates absent names and bio are cleared and an absent role means user.
func apply(user *auth.User, input Input, partial bool) error {
	validator := &validate.Validator{}

	if input.Username != nil || !partial {
		user.Username = strings.TrimSpace(pointer.Val(input.Username))
	}
	if input.Email != nil || !partial {
		user.Email = auth.NormalizeEmail(pointer.Val(input.Email))
	}
	if input.FirstName != nil || !partial {
		user.FirstName = strings.TrimSpace(pointer.Val(input.FirstName))
	}
	if input.LastName != nil || !partial {
		user.LastName = strings.TrimSpace(pointer.Val(input.LastName))
	}
	if input.Bio != nil || !partial {
		user.Bio = pointer.Val(input.Bio)
	}

	switch {
	case input.Role != nil:
		role, err := sec.ParseRole(*input.Role)
		validator.Custom(auth.FieldRole, err != nil, "Must be one of: user, moderator, admin")
		if err == nil {
			user.Role = role
		}
	case !partial:
		user.Role = sec.RoleUser
	}

	auth.ValidateUsername(validator, user.Username)
	auth.ValidateEmail(validator, user.Email)
	validator.MaxLen(auth.FieldFirstName, user.FirstName, auth.MaxNameLength).
		MaxLen(auth.FieldLastName, user.LastName, auth.MaxNameLength)

	return validator.Err()
}
