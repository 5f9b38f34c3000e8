// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query turns client search input into SQL predicate arguments.
package query

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns a LIKE/ILIKE pattern matching value anywhere in a column.
// Wildcards typed by the client are matched literally.
func Contains(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
