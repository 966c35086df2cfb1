package graphstore

import (
	"context"

	"github.com/poiesic/graphrag/core"
)

// GraphStore persists knowledge triples in an external property graph and
// executes read queries against it. Implementations must be thread-safe.
type GraphStore interface {
	// MergeTriples idempotently merges sanitized triples into the graph.
	// Merge identity is the normalized label text, so re-running the same
	// batch creates no duplicate nodes or relationships. Individual triple
	// failures are logged and skipped; the returned count is the number of
	// triples actually persisted.
	MergeTriples(ctx context.Context, triples []core.Triple) (int, error)

	// Predicates returns the sanitized relationship vocabulary currently in
	// use, for constraining generated graph queries.
	Predicates(ctx context.Context) ([]string, error)

	// ReadQuery executes a read-only query string and returns the matched
	// facts flattened to display text. The query must already have passed
	// validation; implementations additionally run it with a request
	// timeout.
	ReadQuery(ctx context.Context, query string) ([]core.GraphFact, error)

	// Close releases the underlying driver.
	Close(ctx context.Context) error
}
