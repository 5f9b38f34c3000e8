// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Repository persists titles together with their genre associations.
//
// Create and Update resolve the slugs of a [Draft]. An unknown slug is a
// VALIDATION_ERROR on [FieldCategory] or [FieldGenre].
type Repository interface {
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)
	FindByID(context context.Context, id int64) (*Title, error)
	Create(context context.Context, draft *Draft) (int64, error)
	Update(context context.Context, id int64, draft *Draft) error
	Delete(context context.Context, id int64) error
}
