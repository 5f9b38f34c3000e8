// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository defines the persistence contract for one taxonomy table.
type Repository interface {

	/*
		List returns one page of entries ordered by name.

		Returns:
		  - []*Entry: The page
		  - int: Total number of matching entries
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]*Entry, int, error)

	// FindBySlug returns the entry with the given slug, or NOT_FOUND.
	FindBySlug(context context.Context, slug string) (*Entry, error)

	// Create inserts an entry. A taken slug is reported as CONFLICT.
	Create(context context.Context, entry *Entry) error

	// Update rewrites the entry currently stored under slug.
	Update(context context.Context, slug string, entry *Entry) error

	Delete(context context.Context, slug string) error
}
