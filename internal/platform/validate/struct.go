// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// structValidator is safe for concurrent use and caches struct metadata.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	engine := validator.New(validator.WithRequiredStructEnabled())

	// Report the JSON name of a field, not the Go one
	engine.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return engine
}

// Struct checks the `validate` tags of a request payload.
// It returns nil or a VALIDATION_ERROR [apperr.AppError] listing every failing field.
func Struct(payload any) error {
	err := structValidator.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldError.Field(),
			Message: messageFor(fieldError),
		})
	}

	return apperr.ValidationError("Validation failed", details...)
}

// messageFor renders a client-facing message for a failed tag.
func messageFor(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldError.Param())
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldError.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fieldError.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldError.Param(), " ", ", "))
	default:
		return fmt.Sprintf("Failed the %q rule", fieldError.Tag())
	}
}
