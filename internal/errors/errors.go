// Package errors provides sentinel errors for the nidmfsl parser and CLI.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrNotFound indicates a required result artifact is missing from the FEAT directory.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates a malformed table, number or a missing configuration key.
	ErrParse = errors.New("parse error")

	// ErrIntegrity indicates a cross-reference between result artifacts could not be resolved.
	ErrIntegrity = errors.New("integrity error")

	// ErrUnsupported indicates a configuration branch the parser does not handle.
	ErrUnsupported = errors.New("unsupported configuration")
)

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category (required).
	Type string

	// Message is the specific description (required).
	Message string

	// Location is the file path the error refers to (optional).
	Location string

	// Field is the design.fsf key or table column involved (optional).
	Field string

	// Context contains additional key-value context (optional).
	Context map[string]string

	// Hint provides actionable guidance (optional).
	Hint string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString("Error: ")
	b.WriteString(e.Type)
	b.WriteString("\n")

	if e.Location != "" {
		b.WriteString("  Location: ")
		b.WriteString(e.Location)
		b.WriteString("\n")
	}
	if e.Field != "" {
		b.WriteString("  Field: ")
		b.WriteString(e.Field)
		b.WriteString("\n")
	}
	for k, v := range e.Context {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(e.Hint)
		b.WriteString("\n")
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a not found error for a required artifact.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "artifact not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewParseError creates a parse error with details.
func NewParseError(message, location, field string) error {
	return &DetailError{
		Type:     "parse failed",
		Message:  message,
		Location: location,
		Field:    field,
		Cause:    ErrParse,
	}
}

// NewIntegrityError creates an error for an unresolvable cross-reference.
func NewIntegrityError(message string, context map[string]string) error {
	return &DetailError{
		Type:    "inconsistent results",
		Message: message,
		Context: context,
		Cause:   ErrIntegrity,
	}
}

// NewUnsupportedError creates an error for an unhandled configuration branch.
func NewUnsupportedError(message, field, hint string) error {
	return &DetailError{
		Type:    "unsupported configuration",
		Message: message,
		Field:   field,
		Hint:    hint,
		Cause:   ErrUnsupported,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
