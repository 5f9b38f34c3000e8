// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the reviewable works of the catalogue.

A title references at most one category and any number of genres. Clients
write those references as slugs and read them back as nested objects. The
rating is derived from reviews (see package review) and is never accepted
from a client.
*/
package title

import (
	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// # Domain Entities

// Title is a reviewable creative work.
type Title struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description *string           `json:"description"`
	Genres      []reference.Entry `json:"genre"`
	Category    *reference.Entry  `json:"category"`
}

// Draft is the writable state of a title, with references given as slugs.
type Draft struct {
	Name        string
	Year        int
	Description *string
	Category    string
	Genres      []string
}

// Filter narrows a list of titles. Empty fields do not filter.
type Filter struct {
	Category string `schema:"category"`
	Genre    string `schema:"genre"`
	Name     string `schema:"name"`
	Year     *int   `schema:"year"`
}

// # Rules

const MaxNameLength = 100

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"
)

// # Errors

var ErrTitleNotFound = apperr.NotFound("Title")
