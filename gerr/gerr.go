// Copyright 2024 The GMLS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gerr implements the structured error taxonomy used throughout the
// GMLS engine: ConfigInvalid, InputInconsistent, IllConditioned and
// NotImplemented. All engine failures are reported through a single *Error
// carrying the failing kind, an optional target index, and a message.
package gerr

import "fmt"

// Kind classifies why the engine refused to produce alphas.
type Kind int

const (
	// ConfigInvalid marks an incompatible space/functional/solver
	// combination, p or d out of range, or a required input not set.
	// These are caught before generate_alphas allocates anything.
	ConfigInvalid Kind = iota

	// InputInconsistent marks k_t > K_max, eps <= 0, or missing extra
	// data (e.g. cell vertices for a face-average target).
	InputInconsistent

	// IllConditioned marks a QR zero pivot, det(G) == 0, or an SVD with
	// every singular value below threshold.
	IllConditioned

	// NotImplemented marks an operator x reconstruction-space combination
	// that is explicitly unsupported.
	NotImplemented
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case InputInconsistent:
		return "InputInconsistent"
	case IllConditioned:
		return "IllConditioned"
	case NotImplemented:
		return "NotImplemented"
	default:
		return "Unknown"
	}
}

// Error is the structured, exception-like error reported by the engine. It
// carries the failing kind, the target index when the failure is specific to
// one target, and a human-readable message.
type Error struct {
	Kind    Kind
	Target  *int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Target != nil {
		return fmt.Sprintf("%s at target %d: %s", e.Kind, *e.Target, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New returns a *Error with no associated target, e.g. for configuration
// failures discovered before any per-target work begins.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AtTarget returns a *Error tied to a specific target index, e.g. for a
// per-target numerical failure that aborts the whole batch.
func AtTarget(kind Kind, target int, format string, args ...interface{}) *Error {
	t := target
	return &Error{Kind: kind, Target: &t, Message: fmt.Sprintf(format, args...)}
}

// WithTarget tags err with a target index if it is a *Error without one
// already, so an error surfacing from a leaf package (basis, linalg,
// manifold, target, prestencil) can be attributed to the target whose
// pipeline produced it without that leaf package needing to know about
// targets at all.
func WithTarget(err error, target int) error {
	if e, ok := err.(*Error); ok && e.Target == nil {
		t := target
		e.Target = &t
	}
	return err
}
