// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package slotapi

import (
	"errors"
	"fmt"
)

// Category classifies a failed call by what the caller should do about
// it.
type Category int

const (
	// CategoryTransient means the call may succeed if repeated later.
	CategoryTransient Category = iota
	// CategoryUnauthorized means the session is no longer valid.
	CategoryUnauthorized
	// CategoryApplication means the backend refused the request.
	CategoryApplication
)

// String returns the category name used in logs.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryApplication:
		return "application"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Error is a failed backend call.
type Error struct {
	Category Category

	// Method and Path identify the request.
	Method string
	Path   string

	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int

	// Message is the backend's error text for application errors.
	Message string

	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Category {
	case CategoryApplication:
		return fmt.Sprintf("slotapi: %s %s: %s", e.Method, e.Path, e.Message)
	case CategoryUnauthorized:
		return fmt.Sprintf("slotapi: %s %s: unauthorized", e.Method, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("slotapi: %s %s: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("slotapi: %s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryOf returns the category of a slotapi error. The second
// result is false for errors that did not come from this package.
func CategoryOf(err error) (Category, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Category, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is an unauthorized response.
func IsUnauthorized(err error) bool {
	category, ok := CategoryOf(err)
	return ok && category == CategoryUnauthorized
}

// IsTransient reports whether err is a transport-level failure.
func IsTransient(err error) bool {
	category, ok := CategoryOf(err)
	return ok && category == CategoryTransient
}

// IsApplication reports whether err is a success:false response.
func IsApplication(err error) bool {
	category, ok := CategoryOf(err)
	return ok && category == CategoryApplication
}

// Message returns the backend's error text for an application error,
// or "" for anything else.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Category == CategoryApplication {
		return apiErr.Message
	}
	return ""
}
