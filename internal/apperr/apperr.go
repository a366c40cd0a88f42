// Package apperr defines the error vocabulary shared by the service handlers.
// Gateway handlers map these onto HTTP statuses; anything unrecognized is a
// storage failure and surfaces as a generic 500 with the cause logged only.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// FieldError reports a validation failure on a specific field so the caller
// can correct and resubmit.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
