package mock

import (
	"context"
	"strings"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// SummarizeFunc is called by Summarize if set.
	SummarizeFunc func(ctx context.Context, text string) (string, error)

	// PlanGraphQueryFunc is called by PlanGraphQuery if set.
	PlanGraphQueryFunc func(ctx context.Context, question string, predicates []string) (string, error)

	// GenerateAnswerFunc is called by GenerateAnswer if set.
	GenerateAnswerFunc func(ctx context.Context, question, contextBlock string) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Summarize returns a truncated echo of the text by default.
func (m *MockGenerator) Summarize(ctx context.Context, text string) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, text)
	}

	words := strings.Fields(text)
	if len(words) > 20 {
		words = words[:20]
	}
	return strings.Join(words, " "), nil
}

// PlanGraphQuery returns a fixed read query by default.
func (m *MockGenerator) PlanGraphQuery(ctx context.Context, question string, predicates []string) (string, error) {
	m.callCount++

	if m.PlanGraphQueryFunc != nil {
		return m.PlanGraphQueryFunc(ctx, question, predicates)
	}
	return "MATCH (n:Entity)-[r]-(m:Entity) RETURN n, r, m LIMIT 15", nil
}

// GenerateAnswer echoes the question and context lengths by default, which
// is enough for tests asserting the call happened with a given context.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contextBlock)
	}
	return "mock answer for: " + question, nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}
