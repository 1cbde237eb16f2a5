// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors.
type ErrorCategory string

const (
	// CategoryValidation indicates bad input: unknown flags, wrong
	// argument count, an invalid configuration.
	CategoryValidation ErrorCategory = "validation"

	// CategoryTransient indicates the backend could not be reached.
	// Running the command again may succeed.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected failure such as an I/O
	// error on the session file.
	CategoryInternal ErrorCategory = "internal"
)

// Error is a categorized error returned by commands. It wraps the
// underlying error so errors.Is and errors.As see the full chain.
type Error struct {
	Category ErrorCategory
	Err      error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *Error {
	return &Error{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *Error {
	return &Error{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of the first *Error in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var commandError *Error
	if errors.As(err, &commandError) {
		return commandError.Category, true
	}
	return "", false
}
