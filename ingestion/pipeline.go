// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"unicode/utf8"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/graphrag/ai"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/graphstore"
	"github.com/poiesic/graphrag/segment"
	"github.com/poiesic/graphrag/storage"
	"github.com/poiesic/graphrag/vectorstore"
	"golang.org/x/sync/errgroup"
)

// MaxGraphExtractionChars caps the text handed to summarization for graph
// extraction. Beyond this the marginal triples are not worth the model cost.
const MaxGraphExtractionChars = 100_000

// Pipeline orchestrates document ingestion: fetch, segment, embed, and
// extract knowledge triples. The embedding branch decides success or
// failure; the graph branch is best-effort.
type Pipeline struct {
	objects   storage.ObjectStore
	vectors   vectorstore.VectorStore
	graph     graphstore.GraphStore
	provider  ai.AIProvider
	segmenter *segment.Segmenter
	extractor TextExtractor
	embedder  *batchEmbedder
	tracker   *statusTracker
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Result reports the outcome of one ingestion run.
type Result struct {
	Key              string
	Owner            string
	Status           core.DocumentStatus
	Chunks           int
	Summary          string
	TriplesPersisted int
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for asynchronous ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the embedding batch size.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithSegmenter sets a custom segmenter.
func WithSegmenter(s *segment.Segmenter) Option {
	return func(p *Pipeline) error {
		if s != nil {
			p.segmenter = s
		}
		return nil
	}
}

// WithTextExtractor sets a custom text extractor.
// Default is PlainTextExtractor.
func WithTextExtractor(e TextExtractor) Option {
	return func(p *Pipeline) error {
		if e != nil {
			p.extractor = e
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	objects storage.ObjectStore,
	vectors vectorstore.VectorStore,
	graph graphstore.GraphStore,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if objects == nil {
		return nil, ErrObjectStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if graph == nil {
		return nil, ErrGraphStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	segmenter, err := segment.NewSegmenter()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		objects:   objects,
		vectors:   vectors,
		graph:     graph,
		provider:  provider,
		segmenter: segmenter,
		extractor: PlainTextExtractor{},
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	p.embedder = newBatchEmbedder(provider.Embedder(), vectors, p.batchSize, p.logger)
	p.tracker = newStatusTracker(objects, p.logger)

	return p, nil
}

// Process runs one full ingestion of the document at key. If owner is
// empty it is derived from the key layout. The document moves to indexing
// immediately, then to ready or failed depending on the embedding branch;
// graph extraction failures are logged and never fail the run.
func (p *Pipeline) Process(ctx context.Context, key, owner string) (*Result, error) {
	if owner == "" {
		derived, ok := core.OwnerFromKey(key)
		if !ok {
			return nil, errors.New("owner not provided and not derivable from key")
		}
		owner = derived
	}

	result := &Result{Key: key, Owner: owner, Status: core.StatusIndexing}
	p.tracker.set(ctx, key, core.StatusIndexing)

	data, err := p.objects.GetObject(ctx, key)
	if err != nil {
		return p.fail(ctx, result, err)
	}

	text, err := p.extractor.Extract(key, data)
	if err != nil {
		return p.fail(ctx, result, err)
	}

	chunks, err := p.segmenter.Segment(key, text)
	if err != nil {
		return p.fail(ctx, result, err)
	}
	result.Chunks = len(chunks)

	normalized := segment.Normalize(text)

	// The two branches run concurrently. Only the embedding branch can
	// return an error; the graph branch records its outcome in result.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, embErr := p.embedder.embedAll(gctx, owner, chunks)
		return embErr
	})
	g.Go(func() error {
		summary, persisted := p.extractGraph(gctx, key, normalized)
		result.Summary = summary
		result.TriplesPersisted = persisted
		return nil
	})

	if err := g.Wait(); err != nil {
		return p.fail(ctx, result, err)
	}

	result.Status = core.StatusReady
	p.tracker.set(ctx, key, core.StatusReady)
	p.logger.Info("document ingested",
		"key", key, "owner", owner, "chunks", result.Chunks, "triples", result.TriplesPersisted)
	return result, nil
}

// Submit schedules an asynchronous ingestion on the worker pool. Errors
// are logged, not returned; callers track progress via document status.
func (p *Pipeline) Submit(key, owner string) error {
	return p.pool.Submit(func() {
		if _, err := p.Process(context.Background(), key, owner); err != nil {
			p.logger.Error("async ingestion failed", "key", key, "err", err)
		}
	})
}

// extractGraph runs the best-effort graph branch: summarize, extract
// triples, sanitize, and merge. Every failure degrades to a warning.
func (p *Pipeline) extractGraph(ctx context.Context, key, text string) (string, int) {
	if len(text) > MaxGraphExtractionChars {
		cut := MaxGraphExtractionChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	summary, err := p.provider.Generator().Summarize(ctx, text)
	if err != nil {
		p.logger.Warn("graph branch: summarization failed", "key", key, "err", err)
		return "", 0
	}

	extracted, err := p.provider.TripleExtractor().ExtractTriples(ctx, summary)
	if err != nil {
		p.logger.Warn("graph branch: triple extraction failed", "key", key, "err", err)
		return summary, 0
	}

	raw := make([]core.Triple, len(extracted))
	for i, t := range extracted {
		raw[i] = core.Triple{
			Subject:   t.Subject,
			Predicate: t.Predicate,
			Object:    t.Object,
			SourceKey: key,
		}
	}

	triples := core.SanitizeTriples(raw)
	if len(triples) == 0 {
		p.logger.Debug("graph branch: no valid triples", "key", key)
		return summary, 0
	}

	persisted, err := p.graph.MergeTriples(ctx, triples)
	if err != nil {
		p.logger.Warn("graph branch: merge failed", "key", key, "err", err)
		return summary, persisted
	}
	return summary, persisted
}

// fail records the failed status and returns the causing error alongside
// the partial result.
func (p *Pipeline) fail(ctx context.Context, result *Result, err error) (*Result, error) {
	result.Status = core.StatusFailed
	p.tracker.set(ctx, result.Key, core.StatusFailed)
	p.logger.Error("document ingestion failed", "key", result.Key, "err", err)
	return result, err
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
