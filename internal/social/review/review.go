// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review manages reviews of titles and keeps the title rating in sync.

# Rating Aggregation

Every review write runs in one transaction that locks the title row, applies
the write, reads all scores of the title and stores their mean as the title
rating. Concurrent writes on one title therefore serialize on the row lock.
A title without scored reviews has no rating.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is a user's opinion of a title, optionally with a score.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title_id"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    *int      `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// # Rules

const (
	MinScore = 1
	MaxScore = 10

	FieldText  = "text"
	FieldScore = "score"
)

var (
	ErrReviewNotFound = apperr.NotFound("Review")
	ErrTitleNotFound  = apperr.NotFound("Title")

	// ErrAlreadyReviewed reports a second review of one title by one author.
	ErrAlreadyReviewed = apperr.Conflict("You have already reviewed this title")
)

// # Repository Contract

// Repository persists reviews. Every lookup is scoped by title, so a review
// addressed under the wrong title is reported as NOT_FOUND.
type Repository interface {

	// List returns the reviews of a title, newest first. Unknown titles yield [ErrTitleNotFound].
	List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)

	FindByID(context context.Context, titleID, reviewID int64) (*Review, error)

	/*
		Create inserts the review and recomputes the title rating in one transaction.

		Returns:
		  - error: [ErrTitleNotFound], [ErrAlreadyReviewed] or storage failures
	*/
	Create(context context.Context, review *Review) error

	// Update stores text and score, then recomputes the title rating.
	Update(context context.Context, review *Review) error

	// Delete removes the review, then recomputes the title rating.
	Delete(context context.Context, titleID, reviewID int64) error
}
