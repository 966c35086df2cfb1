// Package storage defines the object store abstraction for raw documents.
//
// Documents arrive as objects under an owner-scoped prefix. The store also
// tracks each object's ingestion status as object metadata so the listing
// operation can report pipeline progress without a separate database.
package storage
