// Package apperror defines the error taxonomy shared by the service and API layers.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrAbsent       = errors.New("nothing to remove")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmptyResult  = errors.New("empty result")
)

// AppError carries a sentinel kind, a machine-readable code and a message safe
// to return to the caller.
type AppError struct {
	Err     error
	Code    string
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that the entity `resource` with the given id does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    resource + "_not_found",
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a single invalid field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "validation_error",
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// InvalidFields reports several invalid fields at once.
func InvalidFields(fields map[string]string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    "validation_error",
		Message: "request validation failed",
		Fields:  fields,
	}
}

// Invalid reports a request that is well-formed but not acceptable, under a
// specific code rather than per-field details.
func Invalid(code, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    code,
		Message: message,
	}
}

func Conflict(code, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    code,
		Message: message,
	}
}

func Absent(code, message string) *AppError {
	return &AppError{
		Err:     ErrAbsent,
		Code:    code,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Code:    "insufficient_permissions",
		Message: message,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "not_authenticated",
		Message: message,
	}
}

func EmptyResult(code, message string) *AppError {
	return &AppError{
		Err:     ErrEmptyResult,
		Code:    code,
		Message: message,
	}
}
