// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package apperr provides categorized errors for the Medley client.
// Every failure in the client falls into one of a small set of
// categories so the UI layer can decide how to present it (inline
// validation hint, status-bar error, silent discard) without parsing
// error message text.
package apperr

import (
	"errors"
	"fmt"
)

// Category classifies client errors.
type Category string

const (
	// CategoryValidation indicates bad local input: a blank required
	// field, an unselected role, an unparseable amount. Validation
	// errors are raised before any remote call is made.
	CategoryValidation Category = "validation"

	// CategoryRemote indicates a remote operation failed: the backend
	// returned a tagged Err result, or the call itself rejected. The
	// message carries the backend-supplied text verbatim.
	CategoryRemote Category = "remote"

	// CategoryNotFound indicates a referenced resource does not exist:
	// an unknown concert id, a certificate whose concert was deleted.
	CategoryNotFound Category = "not_found"

	// CategoryInternal indicates an unexpected failure: wire decode
	// errors, bugs, I/O failures.
	CategoryInternal Category = "internal"
)

// Error is a categorized error. It wraps an inner error, preserving
// the chain for errors.Is/As while adding category metadata for the
// presentation layer. Use the category constructors (Validation,
// Remote, ...) rather than constructing Error directly.
type Error struct {
	Category Category
	Err      error
}

// Error returns the underlying message. The category is not part of
// the string; it travels separately so the UI can style the message
// without the user seeing classification noise.
func (e *Error) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Validation creates a validation error: the input is bad and no
// remote call was made.
func Validation(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Remote creates a remote-operation error carrying the backend's
// message verbatim.
func Remote(format string, args ...any) *Error {
	return &Error{Category: CategoryRemote, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *Error {
	return &Error{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of err, walking the wrap chain.
// Errors without a category are reported as internal.
func CategoryOf(err error) Category {
	var categorized *Error
	if errors.As(err, &categorized) {
		return categorized.Category
	}
	return CategoryInternal
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return CategoryOf(err) == CategoryValidation }

// IsRemote reports whether err is a remote-operation error.
func IsRemote(err error) bool { return CategoryOf(err) == CategoryRemote }
