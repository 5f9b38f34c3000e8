//go:build integration

// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/postgres/pgtest"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

func seedUser(t *testing.T, pool *pgxpool.Pool, username string) string {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users.account (id, username, email) VALUES ($1, $2, $3)`,
		id, username, username+"@example.com")
	require.NoError(t, err)
	return id
}

func seedTitle(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO core.title (name, year) VALUES ($1, 2000) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func storedRating(t *testing.T, pool *pgxpool.Pool, titleID int64) *float64 {
	t.Helper()
	var rating *float64
	err := pool.QueryRow(context.Background(), `SELECT rating FROM core.title WHERE id = $1`, titleID).Scan(&rating)
	require.NoError(t, err)
	return rating
}

/*
TestPostgresRepository_RatingLifecycle runs the rating scenario against a real
database: 8 gives 8, adding 4 gives 6, deleting the first leaves 4.
*/
func TestPostgresRepository_RatingLifecycle(t *testing.T) {
	pool := pgtest.Start(t)
	repository := NewRepository(pool)
	ctx := context.Background()

	authorA := seedUser(t, pool, "author_a")
	authorB := seedUser(t, pool, "author_b")
	titleID := seedTitle(t, pool, "Solaris")
	otherTitleID := seedTitle(t, pool, "Stalker")

	first := &Review{TitleID: titleID, AuthorID: authorA, Text: "Great", Score: pointer.To(8)}
	require.NoError(t, repository.Create(ctx, first))
	assert.Equal(t, "author_a", first.Author)
	assert.InDelta(t, 8.0, *storedRating(t, pool, titleID), 1e-9)

	second := &Review{TitleID: titleID, AuthorID: authorB, Text: "Fine", Score: pointer.To(4)}
	require.NoError(t, repository.Create(ctx, second))
	assert.InDelta(t, 6.0, *storedRating(t, pool, titleID), 1e-9)

	duplicate := &Review{TitleID: titleID, AuthorID: authorA, Text: "Again", Score: pointer.To(1)}
	err := repository.Create(ctx, duplicate)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.InDelta(t, 6.0, *storedRating(t, pool, titleID), 1e-9)

	// Chain: the review does not exist under another title
	_, err = repository.FindByID(ctx, otherTitleID, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	err = repository.Delete(ctx, otherTitleID, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	require.NoError(t, repository.Delete(ctx, titleID, first.ID))
	assert.InDelta(t, 4.0, *storedRating(t, pool, titleID), 1e-9)

	second.Score = nil
	require.NoError(t, repository.Update(ctx, second))
	assert.Nil(t, storedRating(t, pool, titleID))

	reviews, total, err := repository.List(ctx, titleID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, reviews, 1)
	assert.Equal(t, "author_b", reviews[0].Author)

	_, _, err = repository.List(ctx, 424242, pagination.Params{Page: 1, Limit: 10})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestPostgresRepository_ConcurrentCreates checks that parallel reviews of one
title all land in the rating.
*/
func TestPostgresRepository_ConcurrentCreates(t *testing.T) {
	pool := pgtest.Start(t)
	repository := NewRepository(pool)
	ctx := context.Background()
	titleID := seedTitle(t, pool, "Dune")

	scores := []int{2, 4, 6, 8, 10}
	authors := make([]string, len(scores))
	for i := range scores {
		authors[i] = seedUser(t, pool, "writer_"+string(rune('a'+i)))
	}

	errs := make(chan error, len(scores))
	for i, score := range scores {
		go func() {
			errs <- repository.Create(ctx, &Review{TitleID: titleID, AuthorID: authors[i], Text: "t", Score: pointer.To(score)})
		}()
	}
	for range scores {
		require.NoError(t, <-errs)
	}

	assert.InDelta(t, 6.0, *storedRating(t, pool, titleID), 1e-9)
}
