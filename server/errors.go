package server

import "errors"

var (
	// ErrIngestorRequired is returned when an ingestor is not provided.
	ErrIngestorRequired = errors.New("ingestor required")

	// ErrAnswererRequired is returned when an answerer is not provided.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrListerRequired is returned when a document lister is not provided.
	ErrListerRequired = errors.New("document lister required")
)
