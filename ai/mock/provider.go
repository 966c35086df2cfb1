package mock

import (
	"github.com/poiesic/graphrag/ai"
)

// MockProvider is a test double for ai.AIProvider aggregating the mock
// services.
type MockProvider struct {
	embedder  *MockEmbedder
	extractor *MockTripleExtractor
	generator *MockGenerator
	closed    bool
}

var _ ai.AIProvider = (*MockProvider)(nil)

// NewMockProvider creates a provider wired with fresh mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		extractor: NewMockTripleExtractor(),
		generator: NewMockGenerator(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// TripleExtractor returns the mock triple extraction service.
func (p *MockProvider) TripleExtractor() ai.TripleExtractor {
	return p.extractor
}

// Generator returns the mock generation service.
func (p *MockProvider) Generator() ai.Generator {
	return p.generator
}

// Close marks the provider closed.
func (p *MockProvider) Close() error {
	p.closed = true
	return nil
}

// Closed reports whether Close was called.
func (p *MockProvider) Closed() bool {
	return p.closed
}

// GetMockEmbedder returns the concrete mock embedder for assertions and
// behavior injection.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockExtractor returns the concrete mock extractor.
func (p *MockProvider) GetMockExtractor() *MockTripleExtractor {
	return p.extractor
}

// GetMockGenerator returns the concrete mock generator.
func (p *MockProvider) GetMockGenerator() *MockGenerator {
	return p.generator
}
