// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Category and genre slugs default to the slug of their name
// (e.g. "Science Fiction" becomes "science-fiction").
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of characters outside [a-z0-9-].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Normalizes to NFD and drops combining marks (é becomes e).
//  2. Lowercases.
//  3. Replaces everything outside [a-z0-9] with hyphens.
//  4. Collapses repeated hyphens and trims them at both ends.
//
// Scripts without an ASCII decomposition (Cyrillic, CJK) yield an empty slug.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// FromMax is [From] truncated to at most max bytes, without a trailing hyphen.
func FromMax(s string, max int) string {
	result := From(s)
	if len(result) <= max {
		return result
	}
	return strings.TrimRight(result[:max], "-")
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
