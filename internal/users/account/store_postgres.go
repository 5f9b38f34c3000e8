// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/social/review"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed account store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// countedRow feeds the trailing window count to [auth.ScanUser].
type countedRow struct {
	rows  pgx.Rows
	total *int
}

func (row countedRow) Scan(dest ...any) error {
	return row.rows.Scan(append(dest, row.total)...)
}

/*
List returns accounts ordered by username.

Parameters:
  - context: context.Context
  - filter: Filter (username contains)
  - params: pagination.Params

Returns:
  - []*auth.User: The page
  - int: Total count matching the filter
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*auth.User, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE TRUE`,
		auth.UserColumns, schema.UserAccount.Table))

	if search := strings.TrimSpace(filter.Search); search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.UserAccount.Username, argID))
		args = append(args, query.Contains(search))
		argID++
	}

	filtered, filterArgs := queryBuilder.String(), args

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", schema.UserAccount.Username, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := []*auth.User{}
	total := 0
	for rows.Next() {
		user, err := auth.ScanUser(countedRow{rows: rows, total: &total})
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	// Past the last page
	if len(users) == 0 && params.Offset() > 0 {
		if total, err = postgres.CountRows(context, repository.pool, filtered, filterArgs...); err != nil {
			return nil, 0, dberr.Wrap(err, "count_users")
		}
	}
	return users, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.findOne(context, "find_user_by_id", schema.UserAccount.ID, id)
}

func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findOne(context, "find_user_by_username", schema.UserAccount.Username, username)
}

func (repository *PostgresRepository) findOne(context context.Context, action, column string, value any) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, auth.UserColumns, schema.UserAccount.Table, column)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, auth.WrapUserError(err, action)
	}
	return user, nil
}

// Create delegates to the sign-in store, which owns the insert.
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	return auth.NewUserRepository(repository.pool).Create(context, user)
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.Role,
		schema.UserAccount.FirstName, schema.UserAccount.LastName, schema.UserAccount.Bio,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Bio,
	).Scan(&user.UpdatedAt)

	return auth.WrapUserError(err, "update_user")
}

/*
Delete removes an account and repairs the ratings it contributed to.

Description: The account row is locked first so the author cannot add
reviews meanwhile. The reviewed titles are then locked in id order, the
account is deleted (reviews and comments cascade) and every affected
rating is recomputed before commit.
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			schema.UserAccount.ID, schema.UserAccount.Table, schema.UserAccount.ID)

		var locked string
		if err := tx.QueryRow(context, lock, id).Scan(&locked); err != nil {
			return auth.WrapUserError(err, "lock_user")
		}

		reviewed := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s = $1 ORDER BY %s`,
			schema.SocialReview.TitleID, schema.SocialReview.Table,
			schema.SocialReview.AuthorID, schema.SocialReview.TitleID)

		rows, err := tx.Query(context, reviewed, id)
		if err != nil {
			return dberr.Wrap(err, "find_reviewed_titles")
		}
		titleIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return dberr.Wrap(err, "find_reviewed_titles")
		}

		for _, titleID := range titleIDs {
			if err := review.LockTitle(context, tx, titleID); err != nil {
				return err
			}
		}

		remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.ID)
		if _, err := tx.Exec(context, remove, id); err != nil {
			return auth.WrapUserError(err, "delete_user")
		}

		for _, titleID := range titleIDs {
			if _, err := review.RecomputeTitleRating(context, tx, titleID); err != nil {
				return err
			}
		}
		return nil
	})
}
