// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
helpers the services share: pruning optional values, de-duplicating request
lists and folding scores.
*/
package slice

// Compact dereferences the non-nil pointers of input and drops the rest.
func Compact[T any](input []*T) []T {
	result := make([]T, 0, len(input))
	for _, v := range input {
		if v != nil {
			result = append(result, *v)
		}
	}
	return result
}

// Unique keeps the first occurrence of every value, preserving order.
func Unique[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Reduce folds input into a single value, left to right.
func Reduce[T any, U any](input []T, initial U, reducer func(accumulator U, current T) U) U {
	result := initial
	for _, v := range input {
		result = reducer(result, v)
	}
	return result
}
