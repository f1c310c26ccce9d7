// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
	})
	return validate
}

// A FieldError describes one field of a payload which failed schema
// validation.
type FieldError struct {
	Field   string
	Message string
}

// A SchemaError reports that a payload does not match the schema of
// the model it was decoded into: either it is not valid JSON for the
// model's types, or it fails the model's validate tags.
type SchemaError struct {
	// Fields lists the failing fields, if validation got as far as
	// checking them.
	Fields []FieldError

	// Err is the underlying decoding or validation error.
	Err error
}

func (e *SchemaError) Error() string {
	if len(e.Fields) == 0 {
		return "lithic/model: " + e.Err.Error()
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Field+": "+f.Message)
	}
	return "lithic/model: " + strings.Join(messages, "; ")
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Strict decodes data into dst, which must be a non-nil pointer, and
// then validates the result with Validate. Any mismatch is reported
// as a *SchemaError.
func Strict(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return &SchemaError{Err: err}
	}
	return Validate(dst)
}

// Validate validates a struct using its validate tags, such as
// `validate:"required"` or `validate:"dive"`. Values which are not
// structs, or pointers to structs, always pass.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &SchemaError{Err: err}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(e),
			Message: formatValidationError(e),
		})
	}
	return &SchemaError{Fields: fieldErrors, Err: err}
}

// fieldPath strips the root struct name from the namespace, so that
// "APIStatus.status" becomes "status" and "Page.data[1].token" becomes
// "data[1].token".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32) // lowercase
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
