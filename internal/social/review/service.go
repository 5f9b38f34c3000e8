// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Service implements the review use cases on top of [Repository].
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// Input carries client-writable review fields. Nil means "not provided".
type Input struct {
	Text  *string
	Score *int
}

// List returns one page of the reviews of a title.
func (service *Service) List(context context.Context, actor authz.Actor, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.On(authz.KindReview)); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, titleID, params)
}

// Get returns a review addressed by its title and id.
func (service *Service) Get(context context.Context, actor authz.Actor, titleID, reviewID int64) (*Review, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.On(authz.KindReview)); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, titleID, reviewID)
}

/*
Create publishes the actor's review of a title.

Returns:
  - *Review: The stored review
  - error: UNAUTHORIZED, VALIDATION_ERROR, NOT_FOUND (title), CONFLICT (second review)
*/
func (service *Service) Create(context context.Context, actor authz.Actor, titleID int64, input Input) (*Review, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.On(authz.KindReview)); err != nil {
		return nil, err
	}

	review := &Review{TitleID: titleID, AuthorID: actor.UserID, Score: input.Score}
	if input.Text != nil {
		review.Text = strings.TrimSpace(*input.Text)
	}
	if err := validateReview(review); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
	)
	return review, nil
}

/*
Update changes a review. A full update replaces text and score (a missing
score clears it); a partial update only touches the provided fields.

Returns:
  - error: UNAUTHORIZED, NOT_FOUND, FORBIDDEN (neither author nor staff), VALIDATION_ERROR
*/
func (service *Service) Update(context context.Context, actor authz.Actor, titleID, reviewID int64, input Input, partial bool) (*Review, error) {
	action := authz.ActionUpdate
	if partial {
		action = authz.ActionPartialUpdate
	}

	review, err := service.loadForWrite(context, actor, action, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Text != nil {
		review.Text = strings.TrimSpace(*input.Text)
	} else if !partial {
		review.Text = ""
	}
	if input.Score != nil || !partial {
		review.Score = input.Score
	}

	if err := validateReview(review); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, review); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "review_updated", slog.Int64("review_id", reviewID))
	return review, nil
}

// Delete removes a review. Allowed for its author and for staff.
func (service *Service) Delete(context context.Context, actor authz.Actor, titleID, reviewID int64) error {
	if _, err := service.loadForWrite(context, actor, authz.ActionDelete, titleID, reviewID); err != nil {
		return err
	}

	if err := service.repository.Delete(context, titleID, reviewID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", reviewID),
		slog.Int64("title_id", titleID),
	)
	return nil
}

// loadForWrite resolves the review through its title and checks the actor
// against the review author.
func (service *Service) loadForWrite(context context.Context, actor authz.Actor, action authz.Action, titleID, reviewID int64) (*Review, error) {
	if err := authz.RequireIdentity(actor); err != nil {
		return nil, err
	}

	review, err := service.repository.FindByID(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(actor, action, authz.Owned(authz.KindReview, review.AuthorID)); err != nil {
		return nil, err
	}
	return review, nil
}

func validateReview(review *Review) error {
	validator := &validate.Validator{}
	validator.Required(FieldText, review.Text)
	if review.Score != nil {
		validator.Range(FieldScore, *review.Score, MinScore, MaxScore)
	}
	return validator.Err()
}
