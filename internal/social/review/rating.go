// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"math"

	"github.com/taibuivan/yamdb/pkg/slice"
)

/*
Mean folds review scores into a title rating.

Description: Null scores are skipped. The result is rounded to two decimals,
the precision of the stored rating.

Returns:
  - *float64: The mean, or nil when no review carries a score
*/
func Mean(scores []*int) *float64 {
	scored := slice.Compact(scores)
	if len(scored) == 0 {
		return nil
	}

	sum := slice.Reduce(scored, 0, func(total, score int) int { return total + score })
	mean := math.Round(float64(sum)/float64(len(scored))*100) / 100
	return &mean
}
