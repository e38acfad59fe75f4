package todo

import "fmt"

// Code is the machine-readable error kind carried on every domain error.
// The HTTP layer switches on it; message text is for display only.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is the domain error type. Use errors.As to recover it.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrNotFound is returned by update/delete when no record has the given id.
var ErrNotFound = &Error{Code: CodeNotFound, Message: "todo not found"}

// Validationf builds a VALIDATION_ERROR.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}
