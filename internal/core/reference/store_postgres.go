// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] over one taxonomy table.
type PostgresRepository struct {
	db       *pgxpool.Pool
	table    schema.CoreCategoryTable
	notFound *apperr.AppError
	conflict *apperr.AppError
}

/*
NewPostgresRepository returns a store bound to table.

Parameters:
  - db: *pgxpool.Pool
  - table: schema.CoreCategory or schema.CoreGenre
  - resource: Name used in client messages ("Category", "Genre")
*/
func NewPostgresRepository(db *pgxpool.Pool, table schema.CoreCategoryTable, resource string) *PostgresRepository {
	return &PostgresRepository{
		db:       db,
		table:    table,
		notFound: apperr.NotFound(resource),
		conflict: apperr.Conflict(resource + " with this slug already exists"),
	}
}

// List searches names case-insensitively and pages the result.
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Entry, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	// Total count travels with every row
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE TRUE`,
		repository.table.ID, repository.table.Name, repository.table.Slug,
		repository.table.Table,
	))

	// Name substring
	if search := strings.TrimSpace(filter.Search); search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", repository.table.Name, argID))
		args = append(args, query.Contains(search))
		argID++
	}

	filtered, filterArgs := queryBuilder.String(), args

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, %s LIMIT $%d OFFSET $%d",
		repository.table.Name, repository.table.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	// Execute retrieval against connection pool
	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reference_entries")
	}
	defer rows.Close()

	entries := []*Entry{}
	total := 0
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_reference_entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reference_entries")
	}

	// Past the last page
	if len(entries) == 0 && params.Offset() > 0 {
		if total, err = postgres.CountRows(context, repository.db, filtered, filterArgs...); err != nil {
			return nil, 0, dberr.Wrap(err, "count_reference_entries")
		}
	}
	return entries, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Entry, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		repository.table.ID, repository.table.Name, repository.table.Slug,
		repository.table.Table, repository.table.Slug)

	entry := &Entry{}
	err := repository.db.QueryRow(context, query, slug).Scan(&entry.ID, &entry.Name, &entry.Slug)
	if err != nil {
		return nil, repository.wrap(err, "find_reference_entry")
	}
	return entry, nil
}

func (repository *PostgresRepository) Create(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		repository.table.Table, repository.table.Name, repository.table.Slug, repository.table.ID)

	err := repository.db.QueryRow(context, query, entry.Name, entry.Slug).Scan(&entry.ID)
	return repository.wrap(err, "create_reference_entry")
}

func (repository *PostgresRepository) Update(context context.Context, slug string, entry *Entry) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1 RETURNING %s`,
		repository.table.Table, repository.table.Name, repository.table.Slug,
		repository.table.Slug, repository.table.ID)

	err := repository.db.QueryRow(context, query, slug, entry.Name, entry.Slug).Scan(&entry.ID)
	return repository.wrap(err, "update_reference_entry")
}

// Delete removes the entry. Foreign keys detach titles (category) or drop
// join rows (genre).
func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, repository.table.Table, repository.table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return repository.wrap(err, "delete_reference_entry")
	}
	if tag.RowsAffected() == 0 {
		return repository.notFound
	}
	return nil
}

// wrap names the resource in NOT_FOUND and CONFLICT errors.
func (repository *PostgresRepository) wrap(err error, action string) error {
	if dberr.IsUniqueViolation(err, "") {
		return repository.conflict
	}

	wrapped := dberr.Wrap(err, action)
	if wrapped == dberr.ErrNotFound {
		return repository.notFound
	}
	return wrapped
}
