package domain

import "errors"

// ErrValidation classifies malformed or missing client input.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
