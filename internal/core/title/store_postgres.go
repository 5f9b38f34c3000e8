// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed title store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectTitles hydrates the category with a join and the genres with a
// json_agg sub-query, so a page costs one round trip.
var selectTitles = fmt.Sprintf(`
	SELECT
		t.%s, t.%s, t.%s, t.%s, t.%s,
		c.%s, c.%s,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%s, 'slug', g.%s) ORDER BY g.%s)
			FROM %s g
			JOIN %s tg ON tg.%s = g.%s
			WHERE tg.%s = t.%s
		), '[]') AS genres,
		COUNT(*) OVER() AS total_count
	FROM %s t
	LEFT JOIN %s c ON c.%s = t.%s
	WHERE TRUE`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year,
	schema.CoreTitle.Description, schema.CoreTitle.Rating,
	schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Name,
	schema.CoreGenre.Table,
	schema.CoreTitleGenre.Table, schema.CoreTitleGenre.GenreID, schema.CoreGenre.ID,
	schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID,
	schema.CoreTitle.Table,
	schema.CoreCategory.Table, schema.CoreCategory.ID, schema.CoreTitle.CategoryID,
)

func scanTitle(row pgx.Row, total *int) (*Title, error) {
	title := &Title{}
	var categoryName, categorySlug *string
	var genresJSON []byte

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.Rating,
		&categoryName,
		&categorySlug,
		&genresJSON,
		total,
	)
	if err != nil {
		return nil, err
	}

	if categorySlug != nil {
		title.Category = &reference.Entry{Name: *categoryName, Slug: *categorySlug}
	}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, fmt.Errorf("unmarshal_title_genres_failed: %w", err)
	}
	return title, nil
}

/*
List returns a filtered page of titles ordered by name.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, name substring, year)
  - params: pagination.Params

Returns:
  - []*Title: Hydrated titles
  - int: Total count matching the filter
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitles)

	// Category by slug
	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre by slug, through the join table
	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(`
			AND EXISTS (
				SELECT 1 FROM %s tg
				JOIN %s g ON g.%s = tg.%s
				WHERE tg.%s = t.%s AND g.%s = $%d
			)`,
			schema.CoreTitleGenre.Table,
			schema.CoreGenre.Table, schema.CoreGenre.ID, schema.CoreTitleGenre.GenreID,
			schema.CoreTitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID,
		))
		args = append(args, filter.Genre)
		argID++
	}

	// Name substring
	if name := strings.TrimSpace(filter.Name); name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE $%d", schema.CoreTitle.Name, argID))
		args = append(args, query.Contains(name))
		argID++
	}

	// Exact year
	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	filtered, filterArgs := queryBuilder.String(), args

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s, t.%s LIMIT $%d OFFSET $%d",
		schema.CoreTitle.Name, schema.CoreTitle.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := []*Title{}
	total := 0
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	// Past the last page
	if len(titles) == 0 && params.Offset() > 0 {
		if total, err = postgres.CountRows(context, repository.pool, filtered, filterArgs...); err != nil {
			return nil, 0, dberr.Wrap(err, "count_titles")
		}
	}
	return titles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := fmt.Sprintf(`%s AND t.%s = $1`, selectTitles, schema.CoreTitle.ID)

	var total int
	title, err := scanTitle(repository.pool.QueryRow(context, query, id), &total)
	if err != nil {
		return nil, wrapTitleError(err, "find_title")
	}
	return title, nil
}

/*
Create inserts a title and its genre associations in one transaction.

Returns:
  - int64: The generated id
  - error: VALIDATION_ERROR for unknown slugs, or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, draft *Draft) (int64, error) {
	var id int64

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveReferences(context, tx, draft)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s)
			VALUES ($1, $2, $3, $4)
			RETURNING %s`,
			schema.CoreTitle.Table,
			schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description, schema.CoreTitle.CategoryID,
			schema.CoreTitle.ID,
		)

		if err := tx.QueryRow(context, query, draft.Name, draft.Year, draft.Description, categoryID).Scan(&id); err != nil {
			return dberr.Wrap(err, "create_title")
		}

		return linkGenres(context, tx, id, genreIDs)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces the stored state of a title, genre set included.
func (repository *PostgresRepository) Update(context context.Context, id int64, draft *Draft) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		categoryID, genreIDs, err := resolveReferences(context, tx, draft)
		if err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
			WHERE %s = $1`,
			schema.CoreTitle.Table,
			schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
			schema.CoreTitle.CategoryID, schema.CoreTitle.UpdatedAt,
			schema.CoreTitle.ID,
		)

		tag, err := tx.Exec(context, query, id, draft.Name, draft.Year, draft.Description, categoryID)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return ErrTitleNotFound
		}

		unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID)
		if _, err := tx.Exec(context, unlink, id); err != nil {
			return dberr.Wrap(err, "unlink_title_genres")
		}

		return linkGenres(context, tx, id, genreIDs)
	})
}

// Delete removes a title. Reviews and comments cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}
	if tag.RowsAffected() == 0 {
		return ErrTitleNotFound
	}
	return nil
}

// # Reference Resolution

// resolveReferences turns the slugs of a draft into ids. The rows are read
// FOR SHARE so a concurrent delete cannot detach them mid-transaction.
func resolveReferences(context context.Context, tx pgx.Tx, draft *Draft) (*int, []int, error) {
	var categoryID *int
	if draft.Category != "" {
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR SHARE`,
			schema.CoreCategory.ID, schema.CoreCategory.Table, schema.CoreCategory.Slug)

		var id int
		if err := tx.QueryRow(context, query, draft.Category).Scan(&id); err != nil {
			if dberr.Wrap(err, "resolve_category") == dberr.ErrNotFound {
				return nil, nil, validate.RequiredError(FieldCategory, fmt.Sprintf("Unknown category %q", draft.Category))
			}
			return nil, nil, dberr.Wrap(err, "resolve_category")
		}
		categoryID = &id
	}

	if len(draft.Genres) == 0 {
		return categoryID, nil, nil
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = ANY($1) FOR SHARE`,
		schema.CoreGenre.ID, schema.CoreGenre.Slug, schema.CoreGenre.Table, schema.CoreGenre.Slug)

	rows, err := tx.Query(context, query, draft.Genres)
	if err != nil {
		return nil, nil, dberr.Wrap(err, "resolve_genres")
	}

	type genreRow struct {
		ID   int
		Slug string
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByPos[genreRow])
	if err != nil {
		return nil, nil, dberr.Wrap(err, "resolve_genres")
	}

	genreIDs := make([]int, 0, len(found))
	known := make([]string, 0, len(found))
	for _, genre := range found {
		genreIDs = append(genreIDs, genre.ID)
		known = append(known, genre.Slug)
	}

	for _, slug := range draft.Genres {
		if !slices.Contains(known, slug) {
			return nil, nil, validate.RequiredError(FieldGenre, fmt.Sprintf("Unknown genre %q", slug))
		}
	}
	return categoryID, genreIDs, nil
}

func linkGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::int[]) ON CONFLICT DO NOTHING`,
		schema.CoreTitleGenre.Table, schema.CoreTitleGenre.TitleID, schema.CoreTitleGenre.GenreID)

	if _, err := tx.Exec(context, query, titleID, genreIDs); err != nil {
		return dberr.Wrap(err, "link_title_genres")
	}
	return nil
}

func wrapTitleError(err error, action string) error {
	wrapped := dberr.Wrap(err, action)
	if wrapped == dberr.ErrNotFound {
		return ErrTitleNotFound
	}
	return wrapped
}
