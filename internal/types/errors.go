// Package types holds the error taxonomy shared across pathbridge packages.
// Every failure surfaced by the bridge, the locator, or the document layer
// wraps exactly one of these sentinels so callers can branch with errors.Is
// instead of parsing messages.
package types

import "errors"

var (
	// ErrNotFound indicates a missing input file or search directory.
	ErrNotFound = errors.New("not found")

	// ErrParse indicates a malformed serialized document.
	ErrParse = errors.New("parse error")

	// ErrNetwork indicates a request-level HTTP failure (dial, timeout,
	// connection reset) before any status code was received.
	ErrNetwork = errors.New("network error")

	// ErrAPI indicates a non-2xx HTTP response.
	ErrAPI = errors.New("api error")

	// ErrMissingColumn indicates a required table column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrNotADirectory indicates the search path exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrUnexpected is the catch-all for failures outside the taxonomy.
	ErrUnexpected = errors.New("unexpected error")
)
