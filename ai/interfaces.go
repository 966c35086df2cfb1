package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Used at query time for the question text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice is expected to contain embeddings in the same
	// order as the input texts; callers must verify the returned count matches
	// the submitted count before associating vectors by position.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ExtractedTriple is one raw (subject, predicate, object) fact as produced by
// the model, before sanitization.
type ExtractedTriple struct {
	Subject   string
	Predicate string
	Object    string
}

// TripleExtractor derives structured knowledge triples from text.
// Implementations must be thread-safe for concurrent use.
type TripleExtractor interface {
	// ExtractTriples analyzes text and extracts knowledge triples constrained
	// to a fixed subject/predicate/object schema.
	// Returns an empty slice if no triples are found.
	ExtractTriples(ctx context.Context, text string) ([]ExtractedTriple, error)
}

// Generator covers the free-text generation call shapes used by the system.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Summarize produces a dense, bounded-length summary of document text
	// using a deterministic prompt template.
	Summarize(ctx context.Context, text string) (string, error)

	// PlanGraphQuery asks the model for a read query against the knowledge
	// graph, constrained to the given sanitized predicate vocabulary.
	// The returned string is untrusted and must be validated before execution.
	PlanGraphQuery(ctx context.Context, question string, predicates []string) (string, error)

	// GenerateAnswer synthesizes an answer to the question using only the
	// supplied context block. The instruction forbids answering from outside
	// the context.
	GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider is constructed once per process and
// reused across invocations; all returned services are safe for concurrent
// use.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// TripleExtractor returns the triple extraction service.
	TripleExtractor() TripleExtractor

	// Generator returns the free-text generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
