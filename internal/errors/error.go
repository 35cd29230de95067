package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryDrag     Category = "drag"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// DragError is a structured error with a code, suggestion and documentation.
type DragError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DragError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DragError) Unwrap() error {
	return e.Wrapped
}

// Is matches another DragError with the same code, so callers can compare
// against a template: errors.Is(err, errors.New("E203")).
func (e *DragError) Is(target error) bool {
	t, ok := target.(*DragError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DragError) WithSuggestion(s string) *DragError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *DragError) WithDetail(d string) *DragError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *DragError) WithDetailf(format string, args ...any) *DragError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *DragError) Wrap(err error) *DragError {
	e.Wrapped = err
	return e
}

// New creates a DragError from a registered error code.
func New(code string) *DragError {
	template, ok := registry[code]
	if !ok {
		return &DragError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DragError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new DragError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *DragError {
	return &DragError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a DragError.
func FromError(err error, code string) *DragError {
	if err == nil {
		return nil
	}
	var de *DragError
	if errors.As(err, &de) {
		return de
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a DragError with the given code.
func HasCode(err error, code string) bool {
	var de *DragError
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Wrapped
			continue
		}
		return false
	}
	return false
}
