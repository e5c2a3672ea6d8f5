package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Machine-readable error codes shared across modules. Controllers and
// API clients branch on Code, never on the message text.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidState      = "INVALID_STATE"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInternal          = "INTERNAL"
)

type BaseError struct {
	Code    string
	Message string
	Details map[string]string
	cause   error
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Details[k]))
	}
	return e.Message + " with " + strings.Join(parts, ", ")
}

func (e *BaseError) Unwrap() error { return e.cause }

// WithDetail attaches a human-readable dimension value to the error
// message, e.g. "Church: <uuid>" or "Currency: PEN".
func (e *BaseError) WithDetail(key, value string) *BaseError {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[key] = value
	return e
}

func (e *BaseError) WithCause(err error) *BaseError {
	e.cause = err
	return e
}

// Is matches by code so sentinel comparisons like
// errors.Is(err, serrors.NotFound("")) work across wrapped chains.
func (e *BaseError) Is(target error) bool {
	var be *BaseError
	if !errors.As(target, &be) {
		return false
	}
	return e.Code == be.Code
}

func NotFound(message string) *BaseError {
	return NewError(CodeNotFound, message)
}

func InvalidState(message string) *BaseError {
	return NewError(CodeInvalidState, message)
}

func Conflict(message string) *BaseError {
	return NewError(CodeConflict, message)
}

func InvalidTransition(message string) *BaseError {
	return NewError(CodeInvalidTransition, message)
}

func Internal(err error) *BaseError {
	be := NewError(CodeInternal, "internal error")
	be.cause = err
	return be
}

func IsCode(err error, code string) bool {
	var be *BaseError
	if !errors.As(err, &be) {
		return false
	}
	return be.Code == code
}

// ValidationErrors maps a field name to its validation failure.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
