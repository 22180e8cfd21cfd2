package bridge

import (
	"fmt"

	"pathbridge/internal/document"
)

// Error is a tagged bridge failure. Kind is one of the sentinels in
// internal/types, so errors.Is works through Unwrap; Message carries the
// human-readable diagnostic.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Result is the outcome of one bridge invocation. All failure modes funnel
// here; Process never returns a Go error or panics across its boundary.
type Result struct {
	// Extracted is the value found at the input key path, set once
	// extraction succeeded.
	Extracted *document.Node

	// Status is the HTTP status code, set once a response was received.
	Status int

	// Response is the parsed response document on success.
	Response *document.Node

	// Err is nil on success.
	Err *Error
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

func failure(kind error, format string, args ...any) Result {
	return Result{Err: &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}
