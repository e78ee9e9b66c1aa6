package core

import "github.com/pkg/errors"

// ErrValidation is the message used for validation failures without a more specific cause.
var ErrValidation = errors.New("validation error")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ErrValidation.Error()
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}
