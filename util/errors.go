package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrPathNotFound      = errors.New("path not found")
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Mapping errors
	ErrInvalidMapping  = errors.New("invalid category mapping")
	ErrInvalidCategory = errors.New("category must be a single path component")
)
