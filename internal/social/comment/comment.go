// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment manages comments on reviews.

A comment is addressed by the full chain title, review, comment. Every lookup
checks that the review belongs to the title and the comment to the review;
any break in the chain reads as NOT_FOUND.
*/
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review_id"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// Path addresses a review through its title.
type Path struct {
	TitleID  int64
	ReviewID int64
}

const FieldText = "text"

var (
	ErrCommentNotFound = apperr.NotFound("Comment")
	ErrReviewNotFound  = apperr.NotFound("Review")
)

// Repository persists comments. Every method validates the [Path] first.
type Repository interface {

	// List returns the comments of a review, oldest first.
	List(context context.Context, path Path, params pagination.Params) ([]*Comment, int, error)

	FindByID(context context.Context, path Path, commentID int64) (*Comment, error)

	// Create inserts the comment after checking the chain in the same transaction.
	Create(context context.Context, path Path, comment *Comment) error

	Update(context context.Context, path Path, comment *Comment) error

	Delete(context context.Context, path Path, commentID int64) error
}
