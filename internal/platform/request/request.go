// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body and query decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// queryDecoder maps query strings onto structs tagged with `schema:"..."`.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	body := io.LimitReader(request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
DecodeQuery maps the URL query string onto a struct tagged with `schema`.

Returns:
  - error: VALIDATION_ERROR naming the offending parameter
*/
func DecodeQuery(request *http.Request, target any) error {
	if err := queryDecoder.Decode(target, request.URL.Query()); err != nil {
		details := []apperr.FieldError{}
		if multi, ok := err.(schema.MultiError); ok {
			for field, fieldErr := range multi {
				details = append(details, apperr.FieldError{Field: field, Message: fieldErr.Error()})
			}
		}
		return apperr.ValidationError("Invalid query parameters", details...)
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a numeric URL parameter.

An unparsable value is reported as NotFound for the named resource: the path
simply does not address anything.
*/
func Int64Param(request *http.Request, name, resource string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return value, nil
}

/*
Actor returns the caller of the request for authorization checks.
*/
func Actor(request *http.Request) authz.Actor {
	return ctxutil.GetActor(request.Context())
}
