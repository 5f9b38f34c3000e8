// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/pkg/query"
)

func TestContains(t *testing.T) {
	assert.Equal(t, "%drama%", query.Contains("drama"))
	assert.Equal(t, `%100\%%`, query.Contains("100%"))
	assert.Equal(t, `%a\_b\\c%`, query.Contains(`a_b\c`))
}
