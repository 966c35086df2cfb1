package vectorstore

import (
	"context"

	"github.com/poiesic/graphrag/core"
)

// VectorStore persists embedding records in an external dense index and
// supports similarity search. Implementations must be thread-safe and
// namespace every operation by document owner.
type VectorStore interface {
	// Upsert writes embedding records under the owner's namespace.
	// Writes are idempotent by chunk ID: re-ingesting the same document
	// overwrites records in place instead of creating duplicates.
	Upsert(ctx context.Context, owner string, records []core.EmbeddingRecord) error

	// Search returns up to topK chunks most similar to the vector within
	// the owner's namespace, ordered by similarity score descending.
	Search(ctx context.Context, owner string, vector []float32, topK int) ([]core.VectorMatch, error)

	// Close releases the underlying connection.
	Close() error
}
