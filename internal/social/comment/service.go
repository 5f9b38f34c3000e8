// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Service implements the comment use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new comment [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

func (service *Service) List(context context.Context, actor authz.Actor, path Path, params pagination.Params) ([]*Comment, int, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.On(authz.KindComment)); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, path, params)
}

func (service *Service) Get(context context.Context, actor authz.Actor, path Path, commentID int64) (*Comment, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.On(authz.KindComment)); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, path, commentID)
}

// Create adds the actor's comment to the review at path.
func (service *Service) Create(context context.Context, actor authz.Actor, path Path, text string) (*Comment, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.On(authz.KindComment)); err != nil {
		return nil, err
	}

	comment := &Comment{AuthorID: actor.UserID, Text: strings.TrimSpace(text)}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, path, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", path.ReviewID),
	)
	return comment, nil
}

/*
Update replaces the text of a comment. Text is the only writable field, so
full and partial updates differ only in the action checked.

Returns:
  - error: UNAUTHORIZED, NOT_FOUND, FORBIDDEN or VALIDATION_ERROR
*/
func (service *Service) Update(context context.Context, actor authz.Actor, path Path, commentID int64, text *string, partial bool) (*Comment, error) {
	action := authz.ActionUpdate
	if partial {
		action = authz.ActionPartialUpdate
	}

	comment, err := service.loadForWrite(context, actor, action, path, commentID)
	if err != nil {
		return nil, err
	}

	if text != nil {
		comment.Text = strings.TrimSpace(*text)
	} else if !partial {
		comment.Text = ""
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, path, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_updated", slog.Int64("comment_id", commentID))
	return comment, nil
}

// Delete removes a comment. Allowed for its author and for staff.
func (service *Service) Delete(context context.Context, actor authz.Actor, path Path, commentID int64) error {
	if _, err := service.loadForWrite(context, actor, authz.ActionDelete, path, commentID); err != nil {
		return err
	}

	if err := service.repository.Delete(context, path, commentID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted", slog.Int64("comment_id", commentID))
	return nil
}

func (service *Service) loadForWrite(context context.Context, actor authz.Actor, action authz.Action, path Path, commentID int64) (*Comment, error) {
	if err := authz.RequireIdentity(actor); err != nil {
		return nil, err
	}

	comment, err := service.repository.FindByID(context, path, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, action, authz.Owned(authz.KindComment, comment.AuthorID)); err != nil {
		return nil, err
	}
	return comment, nil
}

func validateComment(comment *Comment) error {
	return (&validate.Validator{}).Required(FieldText, comment.Text).Err()
}
