package tidy

import (
	"errors"
	"fmt"
)

// Sentinel errors for package tidy.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Fatal before any mutation: a root directory is missing or not a directory.
	ErrPathNotFound = errors.New("path not found")

	// Per-entry failures. The sweep logs them, counts the entry as skipped and moves on.
	ErrIO                 = errors.New("i/o error")
	ErrCollisionExhausted = errors.New("no free archive name")
)

// IOError wraps err so that it matches both ErrIO and the original cause.
func IOError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
}
