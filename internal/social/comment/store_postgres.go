// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

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

// NewRepository constructs a PostgreSQL backed comment store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectComments reads comments joined with their review (for the chain
// check) and their author.
var selectComments = fmt.Sprintf(`
	SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, COUNT(*) OVER() AS total_count
	FROM %s c
	JOIN %s r ON r.%s = c.%s
	JOIN %s a ON a.%s = c.%s`,
	schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialComment.AuthorID,
	schema.UserAccount.Username, schema.SocialComment.Text, schema.SocialComment.PubDate,
	schema.SocialComment.Table,
	schema.SocialReview.Table, schema.SocialReview.ID, schema.SocialComment.ReviewID,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.SocialComment.AuthorID,
)

func scanComment(row pgx.Row) (*Comment, int, error) {
	comment := &Comment{}
	total := 0
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
		&total,
	)
	if err != nil {
		return nil, 0, err
	}
	return comment, total, nil
}

/*
List returns one page of a review's comments.

Returns:
  - error: [ErrReviewNotFound] if the review is not under the title
*/
func (repository *PostgresRepository) List(context context.Context, path Path, params pagination.Params) ([]*Comment, int, error) {
	if err := resolveReview(context, repository.pool, path, false); err != nil {
		return nil, 0, err
	}

	filtered := fmt.Sprintf(`%s WHERE c.%s = $1 AND r.%s = $2`,
		selectComments, schema.SocialComment.ReviewID, schema.SocialReview.TitleID)
	query := fmt.Sprintf(`%s
		ORDER BY c.%s, c.%s
		LIMIT $3 OFFSET $4`,
		filtered, schema.SocialComment.PubDate, schema.SocialComment.ID,
	)

	rows, err := repository.pool.Query(context, query, path.ReviewID, path.TitleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	total := 0
	for rows.Next() {
		comment, count, err := scanComment(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
		total = count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}

	// Past the last page
	if len(comments) == 0 && params.Offset() > 0 {
		if total, err = postgres.CountRows(context, repository.pool, filtered, path.ReviewID, path.TitleID); err != nil {
			return nil, 0, dberr.Wrap(err, "count_comments")
		}
	}
	return comments, total, nil
}

// FindByID loads a comment through the whole title, review, comment chain.
func (repository *PostgresRepository) FindByID(context context.Context, path Path, commentID int64) (*Comment, error) {
	return findComment(context, repository.pool, path, commentID)
}

/*
Create inserts a comment once the review is confirmed under the title.

Description: The review row is share-locked so it cannot disappear between
the chain check and the insert.
*/
func (repository *PostgresRepository) Create(context context.Context, path Path, comment *Comment) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := resolveReview(context, tx, path, true); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s)
			VALUES ($1, $2, $3)
			RETURNING %s, %s, (SELECT %s FROM %s WHERE %s = $2)`,
			schema.SocialComment.Table,
			schema.SocialComment.ReviewID, schema.SocialComment.AuthorID, schema.SocialComment.Text,
			schema.SocialComment.ID, schema.SocialComment.PubDate,
			schema.UserAccount.Username, schema.UserAccount.Table, schema.UserAccount.ID,
		)

		comment.ReviewID = path.ReviewID
		err := tx.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
			Scan(&comment.ID, &comment.PubDate, &comment.Author)
		return dberr.Wrap(err, "create_comment")
	})
}

// Update rewrites the text of a comment addressed by the full chain.
func (repository *PostgresRepository) Update(context context.Context, path Path, comment *Comment) error {
	query := fmt.Sprintf(`
		UPDATE %s c SET %s = $4
		FROM %s r
		WHERE c.%s = $1 AND c.%s = $2 AND r.%s = c.%s AND r.%s = $3`,
		schema.SocialComment.Table, schema.SocialComment.Text,
		schema.SocialReview.Table,
		schema.SocialComment.ID, schema.SocialComment.ReviewID,
		schema.SocialReview.ID, schema.SocialComment.ReviewID, schema.SocialReview.TitleID,
	)

	tag, err := repository.pool.Exec(context, query, comment.ID, path.ReviewID, path.TitleID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment addressed by the full chain.
func (repository *PostgresRepository) Delete(context context.Context, path Path, commentID int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s c
		USING %s r
		WHERE c.%s = $1 AND c.%s = $2 AND r.%s = c.%s AND r.%s = $3`,
		schema.SocialComment.Table,
		schema.SocialReview.Table,
		schema.SocialComment.ID, schema.SocialComment.ReviewID,
		schema.SocialReview.ID, schema.SocialComment.ReviewID, schema.SocialReview.TitleID,
	)

	tag, err := repository.pool.Exec(context, query, commentID, path.ReviewID, path.TitleID)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// # Chain Resolution

// resolveReview confirms the review exists under the title.
func resolveReview(context context.Context, db postgres.RowQuerier, path Path, lock bool) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialReview.ID, schema.SocialReview.Table,
		schema.SocialReview.ID, schema.SocialReview.TitleID)
	if lock {
		query += " FOR SHARE"
	}

	var reviewID int64
	err := db.QueryRow(context, query, path.ReviewID, path.TitleID).Scan(&reviewID)
	if wrapped := dberr.Wrap(err, "resolve_review"); wrapped != dberr.ErrNotFound {
		return wrapped
	}
	return ErrReviewNotFound
}

func findComment(context context.Context, db postgres.RowQuerier, path Path, commentID int64) (*Comment, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 AND c.%s = $2 AND r.%s = $3`,
		selectComments, schema.SocialComment.ID, schema.SocialComment.ReviewID, schema.SocialReview.TitleID)

	comment, _, err := scanComment(db.QueryRow(context, query, commentID, path.ReviewID, path.TitleID))
	if err != nil {
		if wrapped := dberr.Wrap(err, "find_comment"); wrapped != dberr.ErrNotFound {
			return nil, wrapped
		}
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
