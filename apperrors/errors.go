// Package apperrors defines the error taxonomy shared by services and
// controllers: validation (400), not-found (404), everything else (500).
package apperrors

import "errors"

// ValidationError reports bad input shape or bounds
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation returns a ValidationError with the given message
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports an absent entity
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFound returns a NotFoundError with the given message
func NewNotFound(message string) error {
	return &NotFoundError{Message: message}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
