package iomerge

import "errors"

var (
	// ErrInvalidDepth is returned when a negative pool depth is configured.
	ErrInvalidDepth = errors.New("depth must not be negative")

	// ErrInvalidSegmentLimit is returned when the configured segment limit
	// cannot hold even a two-element merge.
	ErrInvalidSegmentLimit = errors.New("segment limit must be at least 2")
)
