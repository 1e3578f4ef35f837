package errors

import (
	"net/http"
	"strings"
)

// FieldError describes a single failed input predicate.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of failed field predicates for a request.
// All failing fields are collected before the request is rejected, so a client
// can fix its input in one round trip.
type ValidationError struct {
	fields []FieldError
}

// NewValidationError creates a validation error from the collected field failures.
func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{fields: fields}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "input validation failed: " + strings.Join(parts, "; ")
}

// HTTPCode returns the HTTP status code
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return "VALIDATION_FAILED"
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return "input validation failed"
}

// Details returns detailed error information
func (e *ValidationError) Details() string {
	return e.Error()
}

// Fields returns the per-field failures.
func (e *ValidationError) Fields() []FieldError {
	return e.fields
}
