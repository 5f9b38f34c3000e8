// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the taxonomies titles are filed under.

Categories and genres share one shape (name and slug) and one lifecycle, so a
single implementation serves both: each gets its own [Service] bound to its
table and authorization kind.

# Core Responsibility

  - Lookup: Entries are addressed by their unique slug.
  - Discovery: Lists are ordered by name and searchable by name substring.
  - Integrity: Deleting a category detaches its titles; deleting a genre only
    removes the genre from titles.
*/
package reference

// # Domain Entities

// Entry is a category or a genre.
type Entry struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Filter narrows a list of entries.
type Filter struct {
	Search string `schema:"search"`
}

// # Rules

const (
	MaxNameLength = 30
	MaxSlugLength = 30
)

// # Field Identifiers

const (
	FieldName = "name"
	FieldSlug = "slug"
)
