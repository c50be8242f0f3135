package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// HookdomError is a structured error with a code, explanation and fix hint.
type HookdomError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HookdomError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HookdomError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HookdomError) WithSuggestion(s string) *HookdomError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HookdomError) WithDetail(d string) *HookdomError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *HookdomError) WithDetailf(format string, args ...any) *HookdomError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *HookdomError) Wrap(err error) *HookdomError {
	e.Wrapped = err
	return e
}

// New creates a HookdomError from a registered error code.
func New(code string) *HookdomError {
	template, ok := registry[code]
	if !ok {
		return &HookdomError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HookdomError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new HookdomError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HookdomError {
	return &HookdomError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HookdomError.
// Errors that already are HookdomErrors are returned unchanged.
func FromError(err error, code string) *HookdomError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HookdomError); ok {
		return he
	}
	return New(code).Wrap(err)
}

// Is reports whether err is a HookdomError (or wraps one) with the given code.
func Is(err error, code string) bool {
	for err != nil {
		if he, ok := err.(*HookdomError); ok && he.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
