package model

import "errors"

// Errors returned by every storage backend.
var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document was modified concurrently")
	ErrDuplicateEmail  = errors.New("email already registered")
)
