package storage

import "errors"

var (
	// ErrObjectNotFound indicates the requested key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrStatusUnset indicates no ingestion status has been recorded
	// for the object yet.
	ErrStatusUnset = errors.New("object status not set")

	// ErrEmptyKey indicates an empty object key was provided.
	ErrEmptyKey = errors.New("object key cannot be empty")

	// ErrEmptyOwner indicates an empty owner was provided to a listing.
	ErrEmptyOwner = errors.New("owner cannot be empty")
)
