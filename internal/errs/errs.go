// Package errs defines the error taxonomy shared by the HTTP and
// broker boundaries. Errors are raised at the point of detection and
// propagate unhandled up to the boundary adapter, which maps them to
// transport-specific signals.
package errs

import "errors"

// NotFoundError signals that a requested entity or collection does not
// exist. The message names the lookup key that came up empty.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// InvalidInputError signals a create-time field validation failure. The
// message names the first violated rule.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// UnauthorizedError signals a missing or malformed caller identity.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ForbiddenError signals an operation attempted against a transaction
// the caller does not own.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// ConflictError signals a lost optimistic-concurrency race: the record
// changed between load and save.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NotFound(message string) error     { return &NotFoundError{Message: message} }
func InvalidInput(message string) error { return &InvalidInputError{Message: message} }
func Unauthorized(message string) error { return &UnauthorizedError{Message: message} }
func Forbidden(message string) error    { return &ForbiddenError{Message: message} }
func Conflict(message string) error     { return &ConflictError{Message: message} }

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}
