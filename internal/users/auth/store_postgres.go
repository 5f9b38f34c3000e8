// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

const (
	constraintEmail    = "account_email_key"
	constraintUsername = "account_username_key"
)

// ErrUserNotFound is returned when no account matches a lookup.
var ErrUserNotFound = apperr.NotFound("User")

// # Shared Row Mapping

// UserColumns is the select list understood by [ScanUser].
var UserColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// ScanUser maps one row selected with [UserColumns] onto a [User].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.CodeHash,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// WrapUserError translates storage errors on users.account into domain errors.
func WrapUserError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintEmail):
		return ErrEmailTaken
	case dberr.IsUniqueViolation(err, constraintUsername):
		return ErrUsernameTaken
	}

	wrapped := dberr.Wrap(err, action)
	if wrapped == dberr.ErrNotFound {
		return ErrUserNotFound
	}
	return wrapped
}

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, WrapUserError(err, "find_user_by_id")
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, WrapUserError(err, "find_user_by_email")
	}
	return user, nil
}

/*
Create inserts a new account row and fills the database timestamps back
into the entity.

Returns:
  - error: [ErrEmailTaken], [ErrUsernameTaken] or storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Role, schema.UserAccount.FirstName, schema.UserAccount.LastName,
		schema.UserAccount.Bio, schema.UserAccount.CodeHash, schema.UserAccount.IsVerified,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.CodeHash,
		user.IsVerified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return WrapUserError(err, "create_user")
}

func (repository *PostgresUserRepository) SetCodeHash(context context.Context, userID, codeHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.CodeHash, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.execOne(context, "set_confirmation_code", query, userID, codeHash)
}

func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsVerified, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	return repository.execOne(context, "mark_user_verified", query, userID)
}

// execOne runs a single-row update and reports NOT_FOUND when nothing matched.
func (repository *PostgresUserRepository) execOne(context context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return WrapUserError(err, action)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
