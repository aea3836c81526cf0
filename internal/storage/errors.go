package storage

import "errors"

// Storage errors shared by every backend.
var (
	// ErrNotFound is returned when a requested run does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when a run ID is saved twice.
	// Stored runs are never updated.
	ErrDuplicateKey = errors.New("duplicate key: run already stored")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
