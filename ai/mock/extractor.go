package mock

import (
	"context"

	"github.com/poiesic/graphrag/ai"
)

// MockTripleExtractor is a test double for ai.TripleExtractor.
// It allows custom behavior injection via function fields.
type MockTripleExtractor struct {
	// ExtractTriplesFunc is called by ExtractTriples if set.
	// If nil, returns the Triples field.
	ExtractTriplesFunc func(ctx context.Context, text string) ([]ai.ExtractedTriple, error)

	// Triples is returned by the default behavior.
	Triples []ai.ExtractedTriple

	callCount int
}

// NewMockTripleExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockTripleExtractor(triples ...ai.ExtractedTriple) *MockTripleExtractor {
	return &MockTripleExtractor{Triples: triples}
}

// ExtractTriples returns the configured triples or delegates to the
// injected function.
func (m *MockTripleExtractor) ExtractTriples(ctx context.Context, text string) ([]ai.ExtractedTriple, error) {
	m.callCount++

	if m.ExtractTriplesFunc != nil {
		return m.ExtractTriplesFunc(ctx, text)
	}
	return m.Triples, nil
}

// CallCount returns the number of times ExtractTriples was called.
func (m *MockTripleExtractor) CallCount() int {
	return m.callCount
}
