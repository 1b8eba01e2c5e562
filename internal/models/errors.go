package models

import "errors"

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrFixtureSettled    = errors.New("fixture result is immutable once settled")
	ErrFixtureNotSettled = errors.New("fixture has no result yet")
	ErrInvalidID         = errors.New("invalid ID format")
)
