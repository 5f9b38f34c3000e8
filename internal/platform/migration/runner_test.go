// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/yamdb":   "pgx5://u:p@db:5432/yamdb",
		"postgresql://u:p@db:5432/yamdb": "pgx5://u:p@db:5432/yamdb",
		"pgx5://u:p@db:5432/yamdb":       "pgx5://u:p@db:5432/yamdb",
		"host=db user=u":                 "host=db user=u",
	}
	for input, want := range tests {
		assert.Equal(t, want, toPgx5DSN(input), input)
	}
}
