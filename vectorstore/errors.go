package vectorstore

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose dimensionality does not
	// match the collection configuration.
	ErrDimensionMismatch = errors.New("vector dimensionality does not match collection")

	// ErrEmptyOwner indicates a missing owner namespace.
	ErrEmptyOwner = errors.New("owner namespace required")
)
