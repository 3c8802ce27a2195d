// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package hberr defines the error kinds the engine exposes to callers.
// Transport, parse, resolution, serialization and internal-channel
// errors all map to Other; a per-request timeout maps to Timeout.
// Errors carry a human-readable cause chain (via fmt.Errorf's %w) for
// logging, but only the Kind is ever serialized into result JSON.
package hberr

import (
	"context"
	"errors"
	"fmt"
)

// Kind is the tag serialized in RequestResult.Error.
type Kind string

const (
	Timeout Kind = "timeout"
	Other   Kind = "other"
)

// Error wraps a Kind with a cause chain. It implements error and
// supports errors.Unwrap so %w-wrapping composes normally.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// Wrap builds an Other error, unless cause already carries a Kind or is
// a context deadline/cancellation, in which case that Kind is
// preserved/derived.
func Wrap(cause error) *Error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return e
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		return New(Timeout, cause)
	}
	return New(Other, cause)
}

// KindOf extracts the Kind from an arbitrary error, defaulting to Other.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Other
}
