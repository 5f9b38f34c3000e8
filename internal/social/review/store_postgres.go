// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed review store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectReviews reads reviews together with the author's username.
var selectReviews = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.SocialReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

// selectReviewsWithTotal extends [selectReviews] with the window count.
var selectReviewsWithTotal = fmt.Sprintf(`
	SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, COUNT(*) OVER() AS total_count
	FROM %s r
	JOIN %s a ON a.%s = r.%s`,
	schema.SocialReview.ID, schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
	schema.UserAccount.Username,
	schema.SocialReview.Text, schema.SocialReview.Score, schema.SocialReview.PubDate,
	schema.SocialReview.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialReview.AuthorID,
)

func scanReview(row pgx.Row, extra ...any) (*Review, error) {
	review := &Review{}
	targets := append([]any{
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
	}, extra...)

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return review, nil
}

/*
List returns one page of a title's reviews, newest first.

Returns:
  - []*Review: The page
  - int: Total number of reviews of the title
  - error: [ErrTitleNotFound] or storage failures
*/
func (repository *PostgresRepository) List(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := titleExists(context, repository.pool, titleID); err != nil {
		return nil, 0, err
	}

	filtered := fmt.Sprintf(`%s WHERE r.%s = $1`, selectReviewsWithTotal, schema.SocialReview.TitleID)
	query := fmt.Sprintf(`%s
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $2 OFFSET $3`,
		filtered, schema.SocialReview.PubDate, schema.SocialReview.ID,
	)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := []*Review{}
	total := 0
	for rows.Next() {
		review, err := scanReview(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}

	// Past the last page
	if len(reviews) == 0 && params.Offset() > 0 {
		if total, err = postgres.CountRows(context, repository.pool, filtered, titleID); err != nil {
			return nil, 0, dberr.Wrap(err, "count_reviews")
		}
	}
	return reviews, total, nil
}

// FindByID loads a review only if it belongs to the given title.
func (repository *PostgresRepository) FindByID(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf(`%s WHERE r.%s = $1 AND r.%s = $2`,
		selectReviews, schema.SocialReview.ID, schema.SocialReview.TitleID)

	review, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		return nil, wrapReviewError(err, "find_review")
	}
	return review, nil
}

/*
Create inserts a review and refreshes the title rating.

Description: The title row is locked first. The author's username and the
generated id and pub date are filled back into the entity.
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := LockTitle(context, tx, review.TitleID); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s)
			VALUES ($1, $2, $3, $4)
			RETURNING %s, %s, (SELECT %s FROM %s WHERE %s = $2)`,
			schema.SocialReview.Table,
			schema.SocialReview.TitleID, schema.SocialReview.AuthorID,
			schema.SocialReview.Text, schema.SocialReview.Score,
			schema.SocialReview.ID, schema.SocialReview.PubDate,
			schema.UserAccount.Username, schema.UserAccount.Table, schema.UserAccount.ID,
		)

		err := tx.QueryRow(context, query, review.TitleID, review.AuthorID, review.Text, review.Score).
			Scan(&review.ID, &review.PubDate, &review.Author)
		if err != nil {
			return wrapReviewError(err, "create_review")
		}

		_, err = RecomputeTitleRating(context, tx, review.TitleID)
		return err
	})
}

// Update rewrites text and score of a review scoped by its title.
func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := LockTitle(context, tx, review.TitleID); err != nil {
			return err
		}

		query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4 WHERE %s = $1 AND %s = $2`,
			schema.SocialReview.Table,
			schema.SocialReview.Text, schema.SocialReview.Score,
			schema.SocialReview.ID, schema.SocialReview.TitleID,
		)

		tag, err := tx.Exec(context, query, review.ID, review.TitleID, review.Text, review.Score)
		if err != nil {
			return wrapReviewError(err, "update_review")
		}
		if tag.RowsAffected() == 0 {
			return ErrReviewNotFound
		}

		_, err = RecomputeTitleRating(context, tx, review.TitleID)
		return err
	})
}

// Delete removes a review scoped by its title.
func (repository *PostgresRepository) Delete(context context.Context, titleID, reviewID int64) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := LockTitle(context, tx, titleID); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
			schema.SocialReview.Table, schema.SocialReview.ID, schema.SocialReview.TitleID)

		tag, err := tx.Exec(context, query, reviewID, titleID)
		if err != nil {
			return wrapReviewError(err, "delete_review")
		}
		if tag.RowsAffected() == 0 {
			return ErrReviewNotFound
		}

		_, err = RecomputeTitleRating(context, tx, titleID)
		return err
	})
}

// # Rating Maintenance

// LockTitle takes the row lock that serializes rating updates of a title.
func LockTitle(context context.Context, tx pgx.Tx, titleID int64) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.CoreTitle.ID, schema.CoreTitle.Table, schema.CoreTitle.ID)

	var locked int64
	err := tx.QueryRow(context, query, titleID).Scan(&locked)
	if wrapped := dberr.Wrap(err, "lock_title"); wrapped != dberr.ErrNotFound {
		return wrapped
	}
	return ErrTitleNotFound
}

/*
RecomputeTitleRating stores the mean of the title's current scores.

Description: Must run inside the transaction that changed the reviews, after
[LockTitle]. A title left without scores gets a NULL rating.

Returns:
  - *float64: The stored rating
  - error: Storage failures
*/
func RecomputeTitleRating(context context.Context, tx pgx.Tx, titleID int64) (*float64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.SocialReview.Score, schema.SocialReview.Table, schema.SocialReview.TitleID)

	rows, err := tx.Query(context, query, titleID)
	if err != nil {
		return nil, dberr.Wrap(err, "read_title_scores")
	}
	scores, err := pgx.CollectRows(rows, pgx.RowTo[*int])
	if err != nil {
		return nil, dberr.Wrap(err, "read_title_scores")
	}

	rating := Mean(scores)

	update := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CoreTitle.Table, schema.CoreTitle.Rating, schema.CoreTitle.ID)
	if _, err := tx.Exec(context, update, titleID, rating); err != nil {
		return nil, dberr.Wrap(err, "store_title_rating")
	}
	return rating, nil
}

// # Helpers

func titleExists(context context.Context, pool *pgxpool.Pool, titleID int64) error {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return dberr.Wrap(err, "find_title")
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}

// wrapReviewError maps storage errors of the review table onto domain errors.
func wrapReviewError(err error, action string) error {
	if dberr.IsUniqueViolation(err, schema.SocialReview.UniqueAuthorTitle) {
		return ErrAlreadyReviewed
	}

	wrapped := dberr.Wrap(err, action)
	if wrapped == dberr.ErrNotFound {
		return ErrReviewNotFound
	}
	return wrapped
}
