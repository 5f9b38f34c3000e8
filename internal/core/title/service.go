// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slice"
)

// Service implements the title use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new title [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// Input carries client-writable fields. Nil means "not provided".
//
// Category is a category slug (empty detaches). Genres is the complete set of
// genre slugs.
type Input struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

func (service *Service) List(context context.Context, actor authz.Actor, filter Filter, params pagination.Params) ([]*Title, int, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.On(authz.KindTitle)); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, filter, params)
}

func (service *Service) Get(context context.Context, actor authz.Actor, id int64) (*Title, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.On(authz.KindTitle)); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, id)
}

/*
Create adds a title. New titles have no rating.

Returns:
  - *Title: The stored title with nested category and genres
  - error: UNAUTHORIZED, FORBIDDEN or VALIDATION_ERROR
*/
func (service *Service) Create(context context.Context, actor authz.Actor, input Input) (*Title, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.On(authz.KindTitle)); err != nil {
		return nil, err
	}

	draft := &Draft{}
	if err := service.apply(draft, input, false); err != nil {
		return nil, err
	}

	id, err := service.repository.Create(context, draft)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", id),
		slog.String("name", draft.Name),
	)
	return service.repository.FindByID(context, id)
}

// Update replaces (partial false) or patches (partial true) a title.
func (service *Service) Update(context context.Context, actor authz.Actor, id int64, input Input, partial bool) (*Title, error) {
	action := authz.ActionUpdate
	if partial {
		action = authz.ActionPartialUpdate
	}
	if err := authz.Authorize(actor, action, authz.On(authz.KindTitle)); err != nil {
		return nil, err
	}

	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	draft := draftOf(current)
	if err := service.apply(draft, input, partial); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, id, draft); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", id))
	return service.repository.FindByID(context, id)
}

func (service *Service) Delete(context context.Context, actor authz.Actor, id int64) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.On(authz.KindTitle)); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Helpers

// draftOf converts a stored title back into its writable form.
func draftOf(title *Title) *Draft {
	draft := &Draft{
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
	}
	if title.Category != nil {
		draft.Category = title.Category.Slug
	}
	for _, genre := range title.Genres {
		draft.Genres = append(draft.Genres, genre.Slug)
	}
	return draft
}

// apply merges input into draft and validates the result. Outside partial
// updates every absent field is reset, and name and year are required.
func (service *Service) apply(draft *Draft, input Input, partial bool) error {
	validator := &validate.Validator{}

	if input.Name != nil {
		draft.Name = strings.TrimSpace(*input.Name)
	} else if !partial {
		draft.Name = ""
	}

	if input.Year != nil {
		draft.Year = *input.Year
	} else if !partial {
		validator.Custom(FieldYear, true, "This field is required")
	}

	if input.Description != nil || !partial {
		draft.Description = input.Description
	}

	if input.Category != nil {
		draft.Category = strings.TrimSpace(*input.Category)
	} else if !partial {
		draft.Category = ""
	}

	if input.Genres != nil {
		draft.Genres = uniqueSlugs(*input.Genres)
	} else if !partial {
		draft.Genres = nil
	}

	validator.Required(FieldName, draft.Name).MaxLen(FieldName, draft.Name, MaxNameLength)
	if input.Year != nil || partial {
		validator.NotAfterYear(FieldYear, draft.Year, service.now().Year())
	}
	return validator.Err()
}

func uniqueSlugs(slugs []string) []string {
	trimmed := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug = strings.TrimSpace(slug); slug != "" {
			trimmed = append(trimmed, slug)
		}
	}
	return slice.Unique(trimmed)
}
