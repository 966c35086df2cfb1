package graphstore

import "errors"

var (
	// ErrUnsanitizedPredicate indicates a triple whose predicate escaped
	// sanitization. Predicates become relationship type identifiers, so the
	// store refuses anything outside the sanitized charset.
	ErrUnsanitizedPredicate = errors.New("predicate is not sanitized")

	// ErrEmptyQuery indicates an empty read query string.
	ErrEmptyQuery = errors.New("query string is empty")
)
