// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/pkg/pointer"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		scores []*int
		want   *float64
	}{
		{"no reviews", nil, nil},
		{"only unscored", []*int{nil, nil}, nil},
		{"single", []*int{pointer.To(8)}, pointer.To(8.0)},
		{"pair", []*int{pointer.To(8), pointer.To(4)}, pointer.To(6.0)},
		{"skips null", []*int{pointer.To(10), nil, pointer.To(5)}, pointer.To(7.5)},
		{"rounds to two decimals", []*int{pointer.To(1), pointer.To(1), pointer.To(2)}, pointer.To(1.33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.scores)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}
