// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service implements the use cases of one taxonomy.
type Service struct {
	repository Repository
	kind       authz.Kind
	logger     *slog.Logger
}

// NewService binds a service to its repository and authorization kind
// ([authz.KindCategory] or [authz.KindGenre]).
func NewService(repository Repository, kind authz.Kind, logger *slog.Logger) *Service {
	return &Service{repository: repository, kind: kind, logger: logger}
}

// Input carries client-writable fields. Nil means "not provided".
type Input struct {
	Name *string
	Slug *string
}

func (service *Service) List(context context.Context, actor authz.Actor, filter Filter, params pagination.Params) ([]*Entry, int, error) {
	if err := authz.Authorize(actor, authz.ActionList, authz.On(service.kind)); err != nil {
		return nil, 0, err
	}
	return service.repository.List(context, filter, params)
}

func (service *Service) Get(context context.Context, actor authz.Actor, slug string) (*Entry, error) {
	if err := authz.Authorize(actor, authz.ActionRetrieve, authz.On(service.kind)); err != nil {
		return nil, err
	}
	return service.repository.FindBySlug(context, slug)
}

/*
Create adds an entry. Without an explicit slug one is derived from the name.

Returns:
  - error: UNAUTHORIZED, FORBIDDEN, VALIDATION_ERROR or CONFLICT (slug taken)
*/
func (service *Service) Create(context context.Context, actor authz.Actor, input Input) (*Entry, error) {
	if err := authz.Authorize(actor, authz.ActionCreate, authz.On(service.kind)); err != nil {
		return nil, err
	}

	entry := &Entry{}
	apply(entry, input, false)
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "reference_entry_created",
		slog.String("kind", string(service.kind)),
		slog.String("slug", entry.Slug),
	)
	return entry, nil
}

// Update changes the entry stored under currentSlug. A partial update keeps
// the fields that are not provided.
func (service *Service) Update(context context.Context, actor authz.Actor, currentSlug string, input Input, partial bool) (*Entry, error) {
	action := authz.ActionUpdate
	if partial {
		action = authz.ActionPartialUpdate
	}
	if err := authz.Authorize(actor, action, authz.On(service.kind)); err != nil {
		return nil, err
	}

	entry, err := service.repository.FindBySlug(context, currentSlug)
	if err != nil {
		return nil, err
	}

	apply(entry, input, partial)
	if err := validateEntry(entry); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, currentSlug, entry); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "reference_entry_updated",
		slog.String("kind", string(service.kind)),
		slog.String("slug", entry.Slug),
	)
	return entry, nil
}

func (service *Service) Delete(context context.Context, actor authz.Actor, slug string) error {
	if err := authz.Authorize(actor, authz.ActionDelete, authz.On(service.kind)); err != nil {
		return err
	}

	if err := service.repository.Delete(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "reference_entry_deleted",
		slog.String("kind", string(service.kind)),
		slog.String("slug", slug),
	)
	return nil
}

// apply merges input into entry. Outside partial updates a missing slug is
// derived from the name.
func apply(entry *Entry, input Input, partial bool) {
	if input.Name != nil {
		entry.Name = strings.TrimSpace(*input.Name)
	} else if !partial {
		entry.Name = ""
	}

	switch {
	case input.Slug != nil:
		entry.Slug = strings.TrimSpace(*input.Slug)
	case !partial:
		entry.Slug = slug.FromMax(entry.Name, MaxSlugLength)
	}
}

func validateEntry(entry *Entry) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, entry.Name).MaxLen(FieldName, entry.Name, MaxNameLength)

	validator.Required(FieldSlug, entry.Slug).MaxLen(FieldSlug, entry.Slug, MaxSlugLength)
	if entry.Slug != "" {
		validator.Slug(FieldSlug, entry.Slug)
	}
	return validator.Err()
}
