package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/poiesic/graphrag/ai"
	"github.com/poiesic/graphrag/ai/mock"
	"github.com/poiesic/graphrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocKey = "documents/ada@example.com/notes.txt"

type pipelineFixture struct {
	objects  *fakeObjectStore
	vectors  *fakeVectorStore
	graph    *fakeGraphStore
	provider *mock.MockProvider
	pipeline *Pipeline
}

func newPipelineFixture(t *testing.T, opts ...Option) *pipelineFixture {
	t.Helper()

	f := &pipelineFixture{
		objects:  newFakeObjectStore(),
		vectors:  newFakeVectorStore(),
		graph:    newFakeGraphStore(),
		provider: mock.NewMockProvider(),
	}

	p, err := NewPipeline(f.objects, f.vectors, f.graph, f.provider, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	// Keep test retries fast.
	p.embedder.baseDelay = time.Millisecond
	f.pipeline = p
	return f
}

func TestNewPipeline_RequiresDependencies(t *testing.T) {
	objects := newFakeObjectStore()
	vectors := newFakeVectorStore()
	graph := newFakeGraphStore()
	provider := mock.NewMockProvider()

	_, err := NewPipeline(nil, vectors, graph, provider)
	assert.ErrorIs(t, err, ErrObjectStoreRequired)

	_, err = NewPipeline(objects, nil, graph, provider)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)

	_, err = NewPipeline(objects, vectors, nil, provider)
	assert.ErrorIs(t, err, ErrGraphStoreRequired)

	_, err = NewPipeline(objects, vectors, graph, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestPipeline_ProcessReady(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte(strings.Repeat("Paris is the capital of France. ", 100)))
	f.provider.GetMockExtractor().Triples = []ai.ExtractedTriple{
		{Subject: "Paris", Predicate: "is capital of", Object: "France"},
	}

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, result.Status)
	assert.Equal(t, "ada@example.com", result.Owner, "owner derived from key")
	assert.Greater(t, result.Chunks, 1)
	assert.Equal(t, result.Chunks, f.vectors.count())
	assert.NotEmpty(t, result.Summary)
	assert.Equal(t, 1, result.TriplesPersisted)

	require.Len(t, f.graph.triples, 1)
	assert.Equal(t, "is_capital_of", f.graph.triples[0].Predicate)
	assert.Equal(t, testDocKey, f.graph.triples[0].SourceKey)

	status, err := f.objects.GetStatus(context.Background(), testDocKey)
	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, status)
	assert.Equal(t,
		[]core.DocumentStatus{core.StatusIndexing, core.StatusReady},
		f.objects.history[testDocKey])
}

func TestPipeline_EmbeddingFailureIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("Some document content."))
	f.provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model exploded")
	}

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.Error(t, err)
	var embErr *EmbeddingError
	assert.ErrorAs(t, err, &embErr)
	assert.Equal(t, core.StatusFailed, result.Status)

	status, statusErr := f.objects.GetStatus(context.Background(), testDocKey)
	require.NoError(t, statusErr)
	assert.Equal(t, core.StatusFailed, status)
}

func TestPipeline_ContractViolationFails(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("Some document content."))
	f.provider.GetMockEmbedder().EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return make([][]float32, len(texts)+1), nil
	}

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderContract)
	assert.Equal(t, core.StatusFailed, result.Status)
}

func TestPipeline_GraphFailureStillReady(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("Some document content."))
	f.graph.failErr = errors.New("graph database down")

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.NoError(t, err, "graph branch failures must not fail the run")
	assert.Equal(t, core.StatusReady, result.Status)
	assert.Zero(t, result.TriplesPersisted)
}

func TestPipeline_SummarizationFailureStillReady(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("Some document content."))
	f.provider.GetMockGenerator().SummarizeFunc = func(ctx context.Context, text string) (string, error) {
		return "", errors.New("model unavailable")
	}

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.NoError(t, err)
	assert.Equal(t, core.StatusReady, result.Status)
	assert.Empty(t, result.Summary)
}

func TestPipeline_GraphExtractionCapRespectsRuneBoundaries(t *testing.T) {
	f := newPipelineFixture(t)

	// Two-byte runes offset by one ASCII byte put a rune boundary in the
	// middle of the cap position.
	text := "x" + strings.Repeat("é", MaxGraphExtractionChars/2+1)
	require.Greater(t, len(text), MaxGraphExtractionChars)
	require.False(t, utf8.RuneStart(text[MaxGraphExtractionChars]))

	var summarized string
	f.provider.GetMockGenerator().SummarizeFunc = func(ctx context.Context, text string) (string, error) {
		summarized = text
		return "summary", nil
	}

	f.pipeline.extractGraph(context.Background(), testDocKey, text)

	assert.True(t, utf8.ValidString(summarized))
	assert.LessOrEqual(t, len(summarized), MaxGraphExtractionChars)
	assert.NotEmpty(t, summarized)
}

func TestPipeline_EmptyDocumentFails(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("   \n\n  "))

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyDocument)
	assert.Equal(t, core.StatusFailed, result.Status)
	assert.Zero(t, f.vectors.count())
}

func TestPipeline_MissingObjectFails(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := f.pipeline.Process(context.Background(), testDocKey, "")

	require.Error(t, err)
	assert.Equal(t, core.StatusFailed, result.Status)
}

func TestPipeline_OwnerNotDerivable(t *testing.T) {
	f := newPipelineFixture(t)

	_, err := f.pipeline.Process(context.Background(), "flatkey.txt", "")
	require.Error(t, err)
}

func TestPipeline_ExplicitOwnerWins(t *testing.T) {
	f := newPipelineFixture(t)
	f.objects.put(testDocKey, []byte("content here"))

	result, err := f.pipeline.Process(context.Background(), testDocKey, "override@example.com")

	require.NoError(t, err)
	assert.Equal(t, "override@example.com", result.Owner)
}

func TestPipeline_ReingestionNoDuplicates(t *testing.T) {
	f := newPipelineFixture(t)
	content := []byte(strings.Repeat("Robust systems degrade gracefully. ", 120))
	f.objects.put(testDocKey, content)

	first, err := f.pipeline.Process(context.Background(), testDocKey, "")
	require.NoError(t, err)
	second, err := f.pipeline.Process(context.Background(), testDocKey, "")
	require.NoError(t, err)

	assert.Equal(t, first.Chunks, second.Chunks)
	assert.Equal(t, first.Chunks, f.vectors.count(), "re-ingestion must overwrite in place")
}
