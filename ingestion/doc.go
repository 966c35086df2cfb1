// Package ingestion implements the document processing pipeline.
//
// A run fetches the raw object, extracts and segments its text, then forks
// two concurrent branches: dense embedding of every chunk into the vector
// store, and best-effort knowledge triple extraction into the graph store.
// The embedding branch decides the document's final status; the graph
// branch can only degrade to warnings.
//
// The document status lifecycle is monotonic within one run:
// uploaded -> indexing -> {ready | failed}. Re-uploading restarts the
// cycle, and idempotent chunk IDs make re-ingestion safe.
package ingestion
