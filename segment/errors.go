package segment

import "errors"

var (
	// ErrInvalidChunkSize is returned for a non-positive chunk size.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")

	// ErrInvalidOverlap is returned when the overlap is negative or leaves
	// no room for forward progress within a chunk.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than chunk size minus lookback")

	// ErrInvalidLookback is returned for a negative lookback window.
	ErrInvalidLookback = errors.New("lookback must be non-negative")
)
