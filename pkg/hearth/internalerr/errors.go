// Package internalerr holds the sentinel errors wrapped across hearth packages.
package internalerr

import "errors"

var (
	// ErrNotFound marks lookups of unknown scenarios or runs.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks caller-supplied values the journal rejects.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig marks malformed domains: bad schemas, entities or facts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreUnavailable marks a missing or unreachable run journal.
	ErrStoreUnavailable = errors.New("store unavailable")
)
