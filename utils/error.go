package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError marks malformed or out-of-range input.
// Handlers map it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError marks a status transition that is not permitted from the
// record's current state. Handlers map it to HTTP 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) error {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
