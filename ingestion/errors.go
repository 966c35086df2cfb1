package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/graphrag/core"
)

var (
	// ErrObjectStoreRequired indicates the pipeline was created without an
	// object store.
	ErrObjectStoreRequired = errors.New("object store is required")

	// ErrVectorStoreRequired indicates the pipeline was created without a
	// vector store.
	ErrVectorStoreRequired = errors.New("vector store is required")

	// ErrGraphStoreRequired indicates the pipeline was created without a
	// graph store.
	ErrGraphStoreRequired = errors.New("graph store is required")

	// ErrAIProviderRequired indicates the pipeline was created without an
	// AI provider.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrProviderContract indicates the embedding provider returned a
	// different number of vectors than texts submitted. This is a provider
	// bug, not a transient fault, and is never retried.
	ErrProviderContract = errors.New("embedding provider contract violation")

	// ErrInvalidMaxAttempts indicates a retry was requested with a
	// non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)

// EmbeddingError reports a fatal failure of the embedding branch, carrying
// the chunk IDs of the batch that could not be persisted.
type EmbeddingError struct {
	ChunkIDs []core.ID
	Err      error
}

func (e *EmbeddingError) Error() string {
	ids := make([]string, len(e.ChunkIDs))
	for i, id := range e.ChunkIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("embedding failed for chunks [%s]: %v", strings.Join(ids, ", "), e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
