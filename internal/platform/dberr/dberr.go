// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Errors already classified upstream pass through untouched
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations are client-recoverable
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = err
			return conflict
		case pgerrcode.ForeignKeyViolation:
			invalid := apperr.ValidationError("Referenced resource does not exist")
			invalid.Cause = err
			return invalid
		case pgerrcode.CheckViolation:
			invalid := apperr.ValidationError("Value violates a storage constraint")
			invalid.Cause = err
			return invalid
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	internal := apperr.Internal(err)
	internal.Message = "An unexpected error occurred while trying to " + humanize(action)
	return internal
}

// IsUniqueViolation reports whether err is a unique-constraint violation, optionally
// restricted to a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// humanize turns a snake_case action label into words for the client message.
func humanize(action string) string {
	out := []byte(action)
	for i, b := range out {
		if b == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
