// Copyright 2026 The Medley Authors
// SPDX-License-Identifier: Apache-2.0

// Package result models the backend's tagged success/failure values.
//
// Every mutating backend operation returns either a payload or a
// human-readable failure reason. The wire form is a one-key JSON
// object, {"ok": payload} or {"err": "reason"}; callers must branch on
// the tag before extracting a payload rather than assuming success.
package result

import (
	"encoding/json"
	"fmt"

	"github.com/medley-live/medley/lib/apperr"
)

// Result is a two-variant tagged value: Ok carrying a payload, or Err
// carrying the backend-supplied failure reason.
type Result[T any] struct {
	ok     bool
	value  T
	reason string
}

// Ok constructs a success result.
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Err constructs a failure result with the given reason.
func Err[T any](reason string) Result[T] {
	return Result[T]{reason: reason}
}

// IsOk reports whether the result carries a payload.
func (r Result[T]) IsOk() bool { return r.ok }

// Reason returns the failure reason, or "" for a success.
func (r Result[T]) Reason() string { return r.reason }

// Unwrap returns the payload, or a remote-operation error carrying the
// backend's reason verbatim.
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, apperr.Remote("%s", r.reason)
}

// MustOk returns the payload and panics on a failure result. Only for
// tests and code paths where the result was already checked.
func (r Result[T]) MustOk() T {
	if !r.ok {
		panic(fmt.Sprintf("result: MustOk on Err(%q)", r.reason))
	}
	return r.value
}

// wire is the JSON encoding of a Result: exactly one of the two keys
// is present.
type wire[T any] struct {
	Ok  *T      `json:"ok,omitempty"`
	Err *string `json:"err,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		value := r.value
		return json.Marshal(wire[T]{Ok: &value})
	}
	reason := r.reason
	return json.Marshal(wire[T]{Err: &reason})
}

// UnmarshalJSON implements json.Unmarshaler. A value with neither tag
// is rejected: an untagged response means the caller and the backend
// disagree about the operation's contract.
func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var decoded wire[T]
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	switch {
	case decoded.Err != nil:
		*r = Err[T](*decoded.Err)
	case decoded.Ok != nil:
		*r = Ok(*decoded.Ok)
	default:
		return fmt.Errorf("result: response carries neither ok nor err tag")
	}
	return nil
}
