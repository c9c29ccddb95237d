package domain

import (
	"errors"
	"net/http"
)

// Error types with HTTP status codes
type AppError struct {
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return e.Message
}

// Custom error types
var (
	ErrValidation = &AppError{
		Message: "validation failed",
		Code:    http.StatusUnprocessableEntity,
	}
	ErrInvalidID = &AppError{
		Message: "invalid user id",
		Code:    http.StatusBadRequest,
	}
	ErrUserNotFound = &AppError{
		Message: "user not found",
		Code:    http.StatusNotFound,
	}
	ErrEmailAlreadyExists = &AppError{
		Message: "a user with this email address already exists",
		Code:    http.StatusConflict,
	}
	ErrAmbiguousTarget = &AppError{
		Message: "more than one user matches, specify an id or email",
		Code:    http.StatusConflict,
	}
	ErrMessageRequired = &AppError{
		Message: "Message is required",
		Code:    http.StatusBadRequest,
	}
	ErrIntentDataRequired = &AppError{
		Message: "Intent data is required for confirmation",
		Code:    http.StatusBadRequest,
	}
	// ErrBusy is returned when the per-email write lock could not be taken in time
	ErrBusy = &AppError{
		Message: "another change for this email is in progress, try again",
		Code:    http.StatusConflict,
	}
)

// Standard error types for repositories
var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is raised by stores that enforce email uniqueness themselves
	ErrDuplicateEmail = errors.New("duplicate email")
)

// FieldError names one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field problems and matches ErrValidation with errors.Is
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	return ErrValidation.Message
}

// Is lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StatusCode maps an error to an HTTP status, defaulting to 500
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if errors.Is(err, ErrValidation) {
		return ErrValidation.Code
	}
	return http.StatusInternalServerError
}
